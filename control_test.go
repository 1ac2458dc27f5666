package ftp

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startMockControlServer listens once, accepts a single connection, writes
// greeting, and answers each line whose first word is a key of responses
// (exact, case-sensitive match) with that canned reply; other lines get no
// reply.
func startMockControlServer(t *testing.T, greeting string, responses map[string]string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte(greeting))

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()
			cmd := firstWord(line)
			if reply, ok := responses[cmd]; ok {
				conn.Write([]byte(reply))
			}
		}
	}()

	return ln.Addr().String()
}

func TestControlChannel_CommandRoundTrip(t *testing.T) {
	addr := startMockControlServer(t, "220 mock ready\r\n", map[string]string{
		"NOOP": "200 OK\r\n",
	})
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	cc, err := dialControlChannel(context.Background(), host, port, time.Second)
	require.NoError(t, err)
	defer cc.close()

	cc.Lock()
	greeting, err := cc.nextReply()
	cc.Unlock()
	require.NoError(t, err)
	require.Equal(t, 220, greeting.Code)

	reply, err := cc.do("NOOP")
	require.NoError(t, err)
	require.Equal(t, 200, reply.Code)
}

func TestControlChannel_TimesOutWaitingForReply(t *testing.T) {
	addr := startMockControlServer(t, "220 mock ready\r\n", map[string]string{
		// no handler for NOOP: server stays silent, forcing the timeout path
	})
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	cc, err := dialControlChannel(context.Background(), host, port, 50*time.Millisecond)
	require.NoError(t, err)
	defer cc.close()

	cc.Lock()
	_, err = cc.nextReply()
	cc.Unlock()
	require.NoError(t, err)

	_, err = cc.do("NOOP")
	require.Error(t, err)
	require.True(t, IsKind(err, KindTimeout))
}
