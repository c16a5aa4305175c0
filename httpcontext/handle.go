package httpcontext

// HandlerFunc is a terminal request-processing step. Writing a body or
// status to the context, or returning an error, produces the response.
type HandlerFunc func(ctx *Context) error

// Handler is the interface form of HandlerFunc.
type Handler interface {
	ServeHTTPContext(ctx *Context) error
}

// MiddlewareHandler wraps the next step of a chain. A middleware may
// short-circuit by not invoking next, delegate by calling it, or call
// it after mutating the context.
type MiddlewareHandler func(next HandlerFunc) HandlerFunc
