package ftp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyParser_SingleLine(t *testing.T) {
	p := &replyParser{}
	replies, err := p.feed([]byte("220 Service ready\r\n"))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, 220, replies[0].Code)
	assert.Equal(t, "Service ready", replies[0].Text)
}

func TestReplyParser_MultiLine(t *testing.T) {
	p := &replyParser{}
	replies, err := p.feed([]byte("211-Features:\r\n MDTM\r\n SIZE\r\n211 End\r\n"))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	r := replies[0]
	assert.Equal(t, 211, r.Code)
	assert.Equal(t, []string{"211-Features:", " MDTM", " SIZE", "211 End"}, r.Lines)
	assert.Contains(t, r.Text, "MDTM")
	assert.Contains(t, r.Text, "SIZE")
}

func TestReplyParser_MultipleRepliesInOneChunk(t *testing.T) {
	p := &replyParser{}
	replies, err := p.feed([]byte("220 Ready\r\n230 Logged in\r\n"))
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, 220, replies[0].Code)
	assert.Equal(t, 230, replies[1].Code)
}

// TestReplyParser_BoundaryIndependence is the property spec.md §8 calls
// for: splitting the same byte stream at any boundary yields the same
// sequence of replies.
func TestReplyParser_BoundaryIndependence(t *testing.T) {
	stream := []byte("220-Welcome\r\n to the test server\r\n220 Ready\r\n250 OK\r\n")

	whole := &replyParser{}
	want, err := whole.feed(stream)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		p := &replyParser{}
		var got []*Reply
		i := 0
		for i < len(stream) {
			chunk := 1 + rnd.Intn(3)
			if i+chunk > len(stream) {
				chunk = len(stream) - i
			}
			replies, err := p.feed(stream[i : i+chunk])
			require.NoError(t, err)
			got = append(got, replies...)
			i += chunk
		}
		require.Len(t, got, len(want))
		for j := range want {
			assert.Equal(t, want[j].Code, got[j].Code)
			assert.Equal(t, want[j].Text, got[j].Text)
		}
	}
}

func TestReplyParser_ByteAtATime(t *testing.T) {
	stream := []byte("150 Opening data connection\r\n226 Transfer complete\r\n")
	p := &replyParser{}
	var got []*Reply
	for _, b := range stream {
		replies, err := p.feed([]byte{b})
		require.NoError(t, err)
		got = append(got, replies...)
	}
	require.Len(t, got, 2)
	assert.Equal(t, 150, got[0].Code)
	assert.Equal(t, 226, got[1].Code)
}

func TestReply_CodeClassPredicates(t *testing.T) {
	cases := []struct {
		code                        int
		is1, is2, is3, is4, is5 bool
	}{
		{120, true, false, false, false, false},
		{220, false, true, false, false, false},
		{331, false, false, true, false, false},
		{425, false, false, false, true, false},
		{550, false, false, false, false, true},
	}
	for _, tc := range cases {
		r := &Reply{Code: tc.code}
		assert.Equal(t, tc.is1, r.Is1xx())
		assert.Equal(t, tc.is2, r.Is2xx())
		assert.Equal(t, tc.is3, r.Is3xx())
		assert.Equal(t, tc.is4, r.Is4xx())
		assert.Equal(t, tc.is5, r.Is5xx())
	}
}
