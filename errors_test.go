package ftp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	err := replyErr("DELE", &Reply{Code: 550, Text: "No such file"}, true)
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindAuth))
}

func TestReplyErr_NotFoundGatedByFlag(t *testing.T) {
	err := replyErr("SIZE", &Reply{Code: 550, Text: "missing"}, false)
	assert.Equal(t, KindProtocol, err.Kind)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := netErr("CONNECT", cause)
	assert.ErrorIs(t, err, cause)
}

func TestError_Error_FormatsByPresentFields(t *testing.T) {
	withReply := replyErr("DELE", &Reply{Code: 550, Text: "No such file"}, true)
	assert.Contains(t, withReply.Error(), "550")
	assert.Contains(t, withReply.Error(), "DELE")

	argOnly := argErr("Rename", "from must not be empty")
	assert.Contains(t, argOnly.Error(), "Rename")
}
