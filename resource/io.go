package resource

import (
	"context"
	"io"
)

// RateLimitedReader throttles reads through a Controller.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewRateLimitedReader wraps r. A nil controller disables throttling.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) io.Reader {
	if rc == nil || rc.ioLimiter == nil {
		return r
	}
	return &RateLimitedReader{ctx: ctx, r: r, rc: rc}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if len(p) > r.rc.ioBurst {
		p = p[:r.rc.ioBurst]
	}
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.rc.AcquireIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// RateLimitedWriter throttles writes through a Controller.
type RateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewRateLimitedWriter wraps w. A nil controller disables throttling.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, rc *Controller) io.Writer {
	if rc == nil || rc.ioLimiter == nil {
		return w
	}
	return &RateLimitedWriter{ctx: ctx, w: w, rc: rc}
}

func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}
