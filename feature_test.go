package ftp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFeatureLines(t *testing.T) {
	lines := []string{
		"211-Features:",
		" MDTM",
		" SIZE",
		" MLST type*;size*;modify*;",
		" UTF8",
		" MFMT",
		" EPSV",
		"211 End",
	}
	fs := parseFeatureLines(lines)
	assert.True(t, fs.MDTM)
	assert.True(t, fs.SIZE)
	assert.True(t, fs.MLST)
	assert.True(t, fs.MLSD, "a server advertising MLST implies MLSD support")
	assert.True(t, fs.UTF8)
	assert.True(t, fs.MFMT)
	assert.True(t, fs.EPSV)
}

func TestParseFeatureLines_Partial(t *testing.T) {
	lines := []string{"211-Features:", " SIZE", "211 End"}
	fs := parseFeatureLines(lines)
	assert.True(t, fs.SIZE)
	assert.False(t, fs.MDTM)
	assert.False(t, fs.MLST)
	assert.False(t, fs.UTF8)
}
