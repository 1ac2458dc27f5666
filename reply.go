package ftp

import (
	"fmt"
	"strconv"
	"strings"
)

// Reply is a single complete FTP server reply: a three-digit code and the
// (possibly multi-line) text that came with it.
type Reply struct {
	// Code is the three-digit reply code (e.g. 220, 550).
	Code int

	// Text is the reply's message, with the repeated code/dash/space
	// prefix stripped from every line and lines joined with "\n".
	Text string

	// Lines holds every raw line of the reply, prefix and all, in the
	// order they arrived. Single-line replies have exactly one entry.
	Lines []string
}

func (r *Reply) Is1xx() bool { return r.Code >= 100 && r.Code < 200 }
func (r *Reply) Is2xx() bool { return r.Code >= 200 && r.Code < 300 }
func (r *Reply) Is3xx() bool { return r.Code >= 300 && r.Code < 400 }
func (r *Reply) Is4xx() bool { return r.Code >= 400 && r.Code < 500 }
func (r *Reply) Is5xx() bool { return r.Code >= 500 && r.Code < 600 }

// replyParser turns an arbitrarily-chunked byte stream into a sequence of
// complete Reply values. It is the Reply Parser of spec.md §4.1: feeding it
// the same bytes split at any boundary (one byte at a time, or all at once)
// yields the same sequence of replies.
//
// It is not safe for concurrent use; the Control Channel owns one per
// connection and feeds it from a single reader goroutine.
type replyParser struct {
	// residual holds bytes read past the last complete line.
	residual []byte

	// open is true while a multi-line reply is being accumulated.
	open bool

	// code is the reply code of the currently open multi-line reply.
	code int

	// codeStr is strconv.Itoa(code), cached to avoid reformatting per line.
	codeStr string

	// lines accumulates the raw lines of the reply in progress.
	lines []string
}

// feed appends data to the residual buffer, extracts every complete
// CRLF-terminated line, and returns the replies those lines completed.
// Incomplete trailing bytes are kept for the next call.
func (p *replyParser) feed(data []byte) ([]*Reply, error) {
	p.residual = append(p.residual, data...)

	var out []*Reply
	for {
		idx := indexByte(p.residual, '\n')
		if idx < 0 {
			break
		}
		line := p.residual[:idx]
		p.residual = p.residual[idx+1:]
		line = strings.TrimSuffix(string(line), "\r")

		reply, err := p.consumeLine(line)
		if err != nil {
			return out, err
		}
		if reply != nil {
			out = append(out, reply)
		}
	}
	return out, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// consumeLine applies spec.md §4.1's classification rules to a single
// CRLF-stripped line, returning a completed Reply when the line closes one.
func (p *replyParser) consumeLine(line string) (*Reply, error) {
	if !p.open {
		if code, ok := threeDigitPrefix(line); ok {
			switch {
			case len(line) >= 4 && line[3] == ' ':
				return &Reply{Code: code, Text: tailOf(line), Lines: []string{line}}, nil
			case len(line) >= 4 && line[3] == '-':
				p.open = true
				p.code = code
				p.codeStr = strconv.Itoa(code)
				p.lines = []string{line}
				return nil, nil
			}
		}
		// Unclassifiable line with no reply open: per §4.1 this cannot
		// start a reply, so it is dropped rather than surfaced as an error
		// (servers occasionally send banner noise before the greeting).
		return nil, nil
	}

	// A reply is open: a line starting with the same three digits followed
	// by a space closes it; anything else (including a same-code "-" line,
	// or free-form continuation text) is appended to the accumulator.
	p.lines = append(p.lines, line)
	if strings.HasPrefix(line, p.codeStr) && len(line) >= len(p.codeStr)+1 && line[len(p.codeStr)] == ' ' {
		reply := &Reply{Code: p.code, Text: joinTails(p.lines), Lines: p.lines}
		p.open = false
		p.lines = nil
		return reply, nil
	}
	return nil, nil
}

// threeDigitPrefix reports whether line begins with exactly three ASCII
// digits, returning their integer value.
func threeDigitPrefix(line string) (int, bool) {
	if len(line) < 3 {
		return 0, false
	}
	for i := 0; i < 3; i++ {
		if line[i] < '0' || line[i] > '9' {
			return 0, false
		}
	}
	code, err := strconv.Atoi(line[0:3])
	if err != nil {
		return 0, false
	}
	return code, true
}

// tailOf strips a line's four-byte "NNN " or "NNN-" prefix, if present.
func tailOf(line string) string {
	if len(line) <= 4 {
		return ""
	}
	return line[4:]
}

// joinTails builds the Text of a multi-line reply: every line's tail past
// its four-byte prefix (or the whole line, for RFC 2389 space-led
// continuations that carry no repeated code), joined with "\n".
func joinTails(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		switch {
		case len(l) > 0 && l[0] == ' ':
			parts = append(parts, strings.TrimSpace(l))
		case len(l) > 4 && (l[3] == '-' || l[3] == ' '):
			parts = append(parts, l[4:])
		case len(l) > 0:
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "\n")
}

// String renders the reply as its code followed by its Text; useful in
// error messages and tests.
func (r *Reply) String() string {
	return fmt.Sprintf("%d %s", r.Code, r.Text)
}
