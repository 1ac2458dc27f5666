// Package ratelimit provides bandwidth throttling for FTP transfers,
// wrapping golang.org/x/time/rate's token bucket.
//
// This package is used internally by the FTP client to cap transfer
// speed per Config.BandwidthLimit.
package ratelimit

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// maxChunk bounds how many bytes a single Read/Write waits for at once, so
// a large buffer doesn't block the whole rate.Limiter burst in one shot.
const maxChunk = 32 * 1024

// Limiter throttles a byte stream to a target bytes-per-second rate,
// allowing bursts up to one second's worth of data.
type Limiter struct {
	rl    *rate.Limiter
	burst int
}

// New returns a Limiter capped at bytesPerSecond, or nil if the limit is
// zero or negative (meaning "unlimited").
func New(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}
	burst := int(bytesPerSecond)
	return &Limiter{rl: rate.NewLimiter(rate.Limit(bytesPerSecond), burst), burst: burst}
}

// chunk bounds a requested size to what a single WaitN call can grant: the
// smaller of maxChunk and the limiter's own burst, since WaitN rejects a
// request larger than the burst outright.
func (l *Limiter) chunk(n int) int {
	if l == nil {
		return n
	}
	if n > maxChunk {
		n = maxChunk
	}
	if n > l.burst {
		n = l.burst
	}
	if n <= 0 {
		n = 1
	}
	return n
}

func (l *Limiter) wait(n int) {
	if l == nil || n <= 0 {
		return
	}
	_ = l.rl.WaitN(context.Background(), n)
}

type reader struct {
	r       io.Reader
	limiter *Limiter
}

// NewReader returns r throttled by limiter. A nil limiter returns r unchanged.
func NewReader(r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &reader{r: r, limiter: limiter}
}

func (r *reader) Read(p []byte) (int, error) {
	if n := r.limiter.chunk(len(p)); n < len(p) {
		p = p[:n]
	}
	r.limiter.wait(len(p))
	return r.r.Read(p)
}

type writer struct {
	w       io.Writer
	limiter *Limiter
}

// NewWriter returns w throttled by limiter. A nil limiter returns w unchanged.
func NewWriter(w io.Writer, limiter *Limiter) io.Writer {
	if limiter == nil {
		return w
	}
	return &writer{w: w, limiter: limiter}
}

func (w *writer) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		chunk := w.limiter.chunk(len(p) - total)
		w.limiter.wait(chunk)
		n, err := w.w.Write(p[total : total+chunk])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
