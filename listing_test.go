package ftp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListLine_Unix(t *testing.T) {
	entry := parseListLine("-rw-r--r-- 1 owner group 1234 Jan  1 00:00 file.txt", nil)
	require.NotNil(t, entry)
	assert.Equal(t, KindFile, entry.Kind)
	assert.Equal(t, "file.txt", entry.Name)
	assert.Equal(t, int64(1234), entry.Size)
}

func TestParseListLine_UnixDir(t *testing.T) {
	entry := parseListLine("drwxr-xr-x 2 owner group 4096 Jan  1 00:00 sub", nil)
	require.NotNil(t, entry)
	assert.Equal(t, KindDir, entry.Kind)
	assert.Equal(t, "sub", entry.Name)
}

func TestParseListLine_UnixSymlink(t *testing.T) {
	entry := parseListLine("lrwxrwxrwx 1 owner group 7 Jan  1 00:00 link -> target.txt", nil)
	require.NotNil(t, entry)
	assert.Equal(t, KindLink, entry.Kind)
	assert.Equal(t, "link", entry.Name)
	assert.Equal(t, "target.txt", entry.Target)
}

func TestParseListLine_DOS(t *testing.T) {
	entry := parseListLine("12-14-23  12:22PM   1037794 large-document.pdf", nil)
	require.NotNil(t, entry)
	assert.Equal(t, KindFile, entry.Kind)
	assert.Equal(t, int64(1037794), entry.Size)
	assert.Equal(t, "large-document.pdf", entry.Name)
}

func TestParseListLine_DOSDir(t *testing.T) {
	entry := parseListLine("09-24-24  10:30AM       <DIR>          logger", nil)
	require.NotNil(t, entry)
	assert.Equal(t, KindDir, entry.Kind)
	assert.Equal(t, "logger", entry.Name)
}

func TestParseListLine_EPLF(t *testing.T) {
	entry := parseListLine("+i8388621.48594,m825718503,r,s280,\tdjb.html", nil)
	require.NotNil(t, entry)
	assert.Equal(t, KindFile, entry.Kind)
	assert.Equal(t, int64(280), entry.Size)
	assert.Equal(t, "djb.html", entry.Name)
}

func TestParseListLine_Unrecognized(t *testing.T) {
	entry := parseListLine("total 12", nil)
	require.NotNil(t, entry)
	assert.Equal(t, KindOther, entry.Kind)
}

func TestParseMLEntry(t *testing.T) {
	entry, ok := parseMLEntry("type=file;size=1234;modify=20240102030405; readme.txt")
	require.True(t, ok)
	assert.Equal(t, KindFile, entry.Kind)
	assert.Equal(t, int64(1234), entry.Size)
	assert.Equal(t, "readme.txt", entry.Name)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), entry.Modify)
}

func TestParseMLEntry_Dir(t *testing.T) {
	entry, ok := parseMLEntry("type=dir;perm=el; sub")
	require.True(t, ok)
	assert.Equal(t, KindDir, entry.Kind)
	assert.Equal(t, "el", entry.Perm)
}

func TestParseMLEntry_NoSpace(t *testing.T) {
	_, ok := parseMLEntry("type=file;size=1234")
	assert.False(t, ok)
}
