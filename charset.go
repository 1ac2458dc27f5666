package ftp

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// encodePathArg encodes a command argument for the wire: UTF-8 verbatim
// once the server has advertised (and the client has enabled) the UTF8
// feature, or strict Latin-1 otherwise, per spec.md §4.2. Characters with
// no Latin-1 representation are replaced with '?' rather than failing the
// command outright.
func encodePathArg(s string, utf8 bool) string {
	if utf8 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if c, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
