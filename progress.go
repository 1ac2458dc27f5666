package ftp

import "io"

// ProgressFunc is called as a transfer makes headway. current is the number
// of bytes moved so far; total is the known size, or -1 if unknown (e.g. an
// upload whose source size couldn't be stat'd).
type ProgressFunc func(current, total int64)

// progressReader wraps an io.Reader and reports cumulative bytes read.
type progressReader struct {
	r        io.Reader
	total    int64
	current  int64
	callback ProgressFunc
}

func newProgressReader(r io.Reader, total int64, cb ProgressFunc) io.Reader {
	if cb == nil {
		return r
	}
	return &progressReader{r: r, total: total, callback: cb}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.current += int64(n)
		pr.callback(pr.current, pr.total)
	}
	return n, err
}

// progressWriter wraps an io.Writer and reports cumulative bytes written.
type progressWriter struct {
	w        io.Writer
	total    int64
	current  int64
	callback ProgressFunc
}

func newProgressWriter(w io.Writer, total int64, cb ProgressFunc) io.Writer {
	if cb == nil {
		return w
	}
	return &progressWriter{w: w, total: total, callback: cb}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	if n > 0 {
		pw.current += int64(n)
		pw.callback(pw.current, pw.total)
	}
	return n, err
}
