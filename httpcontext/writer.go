package httpcontext

import (
	"bytes"
	"io"
	"net/http"
)

// writerWrapper lets plain http handlers participate in a chain by
// staging their output on the context instead of the real writer.
type writerWrapper struct {
	ctx    *Context
	writer *bytes.Buffer
}

func (w *writerWrapper) Write(bs []byte) (int, error) {
	return w.writer.Write(bs)
}

func (w *writerWrapper) Header() http.Header {
	return w.ctx.Header()
}

func (w *writerWrapper) WriteHeader(status int) {
	w.ctx.SetStatusCode(status)
}

func (w *writerWrapper) Close() error {
	w.ctx.SetBody(io.NopCloser(w.writer))
	return nil
}

func newWriterWrapper(ctx *Context) *writerWrapper {
	return &writerWrapper{
		ctx, bytes.NewBuffer(nil),
	}
}
