package httpcontext

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/kildevaeld/strong"
)

// Params holds the path segments bound by the route matcher.
type Params = httprouter.Params

var (
	requestPool sync.Pool
	contextPool sync.Pool
)

func init() {
	requestPool = sync.Pool{
		New: func() interface{} {
			return &RequestBody{}
		},
	}

	contextPool = sync.Pool{
		New: func() interface{} {
			return &Context{}
		},
	}
}

// RequestBody wraps the incoming body so it can be read once and
// decoded through the content-type registry.
type RequestBody struct {
	reader      io.ReadCloser
	contentType string
	done        bool
}

func (r *RequestBody) Read(bs []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	read, err := r.reader.Read(bs)
	if err == io.EOF {
		r.done = true
	}
	return read, err
}

func (r *RequestBody) Close() error {
	r.done = true
	return r.reader.Close()
}

func (r *RequestBody) ReadAll() ([]byte, error) {
	bs, err := io.ReadAll(r.reader)
	r.done = true
	return bs, err
}

// Decode unmarshals the body using the decoder registered for the
// request's content type.
func (r *RequestBody) Decode(v interface{}) error {
	if r.done {
		return io.EOF
	}

	bs, err := r.ReadAll()
	defer r.Close()
	if err != nil {
		return err
	}

	decoder := GetDecoder(r.contentType)
	if decoder == nil {
		return fmt.Errorf("cannot decode content type '%s'", r.contentType)
	}

	return decoder.Decode(bs, v)
}

func (r *RequestBody) reset() *RequestBody {
	r.done = false
	r.reader = nil
	r.contentType = ""
	return r
}

// Context is the per-request state passed through a handler chain.
// A context is owned by exactly one request and is recycled when the
// response has been written.
type Context struct {
	req     *http.Request
	reqBody *RequestBody
	params  Params
	res     http.ResponseWriter

	body     io.ReadCloser
	status   int
	identity *Identity
	u        map[string]interface{}
}

func (c *Context) Params() Params {
	return c.params
}

func (c *Context) SetParams(params Params) {
	c.params = params
}

func (c *Context) Request() *http.Request {
	return c.req
}

func (c *Context) Response() http.ResponseWriter {
	return c.res
}

func (c *Context) SetContentType(contentType string) *Context {
	c.res.Header().Set(strong.HeaderContentType, contentType)
	return c
}

// SetBody replaces the pending response body. Any previous body is closed.
func (c *Context) SetBody(v io.ReadCloser) *Context {
	if c.body != nil {
		c.body.Close()
	}
	c.body = v
	return c
}

func (c *Context) Body() io.ReadCloser {
	return c.body
}

func (c *Context) SetStatusCode(status int) *Context {
	c.status = status
	return c
}

func (c *Context) StatusCode() int {
	return c.status
}

func (c *Context) RequestBody() *RequestBody {
	if c.reqBody == nil {
		c.reqBody = requestPool.Get().(*RequestBody)
		c.reqBody.reader = c.req.Body
		c.reqBody.contentType = c.req.Header.Get(strong.HeaderContentType)
	}
	return c.reqBody
}

// MultipartForm parses and returns the request's multipart form.
// Temporary files backing the form are released when the context is
// recycled.
func (c *Context) MultipartForm(maxMemory int64) (*multipart.Form, error) {
	if c.req.MultipartForm == nil {
		if err := c.req.ParseMultipartForm(maxMemory); err != nil {
			return nil, err
		}
	}
	return c.req.MultipartForm, nil
}

func (c *Context) Text(str string) error {
	c.res.Header().Set(strong.HeaderContentType, strong.MIMETextPlain)
	return c.bytes([]byte(str))
}

func (c *Context) JSON(v interface{}) error {
	return c.Encode(strong.MIMEApplicationJSONCharsetUTF8, v)
}

func (c *Context) HTML(str string) error {
	c.res.Header().Set(strong.HeaderContentType, strong.MIMETextHTMLCharsetUTF8)
	return c.bytes([]byte(str))
}

func (c *Context) Bytes(bs []byte) error {
	c.res.Header().Set(strong.HeaderContentType, strong.MIMEOctetStream)
	return c.bytes(bs)
}

// Encode serializes v with the encoder registered for contentType and
// stages it as the response body.
func (c *Context) Encode(contentType string, v interface{}) error {
	encoder := GetEncoder(contentType)
	if encoder == nil {
		return fmt.Errorf("cannot encode content type '%s'", contentType)
	}

	bs, err := encoder.Encode(v)
	if err != nil {
		return err
	}

	c.res.Header().Set(strong.HeaderContentType, contentType)
	return c.bytes(bs)
}

func (c *Context) bytes(bs []byte) error {
	if c.body != nil {
		c.body.Close()
	}
	c.Header().Set(strong.HeaderContentLength, fmt.Sprintf("%d", len(bs)))
	c.body = io.NopCloser(bytes.NewBuffer(bs))
	return nil
}

// Write implements io.Writer over the pending response body so the
// context can stand in for a http.ResponseWriter.
func (c *Context) Write(bs []byte) (int, error) {
	if c.body == nil {
		c.body = io.NopCloser(bytes.NewBuffer(nil))
	}

	if writer, ok := c.body.(io.Writer); ok {
		return writer.Write(bs)
	}

	return 0, fmt.Errorf("body not a writer")
}

func (c *Context) WriteHeader(statusCode int) {
	c.status = statusCode
}

func (c *Context) Error(status int, msg ...interface{}) error {
	return strong.NewHTTPError(status, msg...)
}

func (c *Context) Redirect(status int, path string) error {
	return &RedirectError{status, path}
}

// SetIdentity attaches the authenticated identity for this request.
// Claims are read-only once issued; handlers downstream only inspect.
func (c *Context) SetIdentity(identity *Identity) *Context {
	c.identity = identity
	return c
}

// Identity returns the authenticated identity, or nil when the request
// has not passed an authentication handler.
func (c *Context) Identity() *Identity {
	return c.identity
}

func (c *Context) SetUserValue(k string, v interface{}) *Context {
	if c.u == nil {
		c.u = make(map[string]interface{})
	}
	c.u[k] = v
	return c
}

func (c *Context) UserValue(k string) interface{} {
	if c.u == nil {
		return nil
	}
	return c.u[k]
}

func (c *Context) Header() http.Header {
	return c.res.Header()
}

func (c *Context) Websocket(upgrader *websocket.Upgrader) (*websocket.Conn, error) {
	if upgrader == nil {
		upgrader = &websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	}
	return upgrader.Upgrade(c.res, c.req, nil)
}

func (c *Context) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijack, ok := c.res.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}

	return hijack.Hijack()
}

func (c *Context) reset() *Context {
	if c.reqBody != nil {
		c.reqBody.Close()
		requestPool.Put(c.reqBody.reset())
	}
	if c.req != nil && c.req.MultipartForm != nil {
		c.req.MultipartForm.RemoveAll()
	}
	c.req = nil
	c.reqBody = nil
	c.res = nil
	c.params = nil
	c.identity = nil
	c.u = nil
	c.status = 0

	if c.body != nil {
		c.body.Close()
	}
	c.body = nil
	return c
}

// Acquire takes a pooled context and binds it to the request.
// Release must be called on every exit path.
func Acquire(w http.ResponseWriter, r *http.Request) *Context {
	ctx := contextPool.Get().(*Context)
	ctx.res = w
	ctx.req = r
	return ctx
}

func Release(ctx *Context) {
	contextPool.Put(ctx.reset())
}
