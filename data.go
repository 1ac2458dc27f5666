package ftp

import (
	"bytes"
	"io"
	"net"

	"github.com/cactusdev/ftp/internal/ratelimit"
)

// dataChannel is a single-use connection opened for one transfer and
// discarded afterward (spec.md §4.3); it is never kept open across
// commands.
type dataChannel struct {
	conn    net.Conn
	limiter *ratelimit.Limiter
}

func (d *dataChannel) close() error { return d.conn.Close() }

// downloadTo copies everything the server sends on the data connection into
// dst, optionally rate-limited and reporting progress.
func (d *dataChannel) downloadTo(dst io.Writer, total int64, progress ProgressFunc) (int64, error) {
	r := ratelimit.NewReader(d.conn, d.limiter)
	w := newProgressWriter(dst, total, progress)
	return io.Copy(w, r)
}

// uploadFrom copies src to the server over the data connection, optionally
// rate-limited and reporting progress.
func (d *dataChannel) uploadFrom(src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	r := newProgressReader(src, total, progress)
	w := ratelimit.NewWriter(d.conn, d.limiter)
	return io.Copy(w, r)
}

// readAll drains the data connection into memory; used for directory
// listings (LIST/MLSD/NLST), which are always small enough to buffer.
func (d *dataChannel) readAll() ([]byte, error) {
	r := ratelimit.NewReader(d.conn, d.limiter)
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
