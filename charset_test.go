package ftp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodePathArg_UTF8Passthrough(t *testing.T) {
	assert.Equal(t, "café.txt", encodePathArg("café.txt", true))
}

func TestEncodePathArg_Latin1(t *testing.T) {
	encoded := encodePathArg("café.txt", false)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9, '.', 't', 'x', 't'}, []byte(encoded))
}

func TestEncodePathArg_AsciiUnaffected(t *testing.T) {
	assert.Equal(t, "plain.txt", encodePathArg("plain.txt", false))
}
