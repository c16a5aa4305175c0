package httpcontext

import (
	"fmt"
	"io"
	"net/http"

	"github.com/kildevaeld/strong"
)

func handlerToMiddleware(r HandlerFunc) MiddlewareHandler {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx *Context) error {
			if err := r(ctx); err != nil {
				return err
			}

			// A plain handler used as middleware short-circuits once it
			// has staged a response.
			if ctx.Body() != nil || ctx.StatusCode() > 0 {
				return nil
			}

			if next != nil {
				return next(ctx)
			}

			return nil
		}
	}
}

func cWrapper(fn func(ctx *Context, next HandlerFunc) error) MiddlewareHandler {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx *Context) error {
			return fn(ctx, next)
		}
	}
}

func httpHandlerToHandler(fn http.HandlerFunc) HandlerFunc {
	return func(ctx *Context) error {
		writer := newWriterWrapper(ctx)
		defer writer.Close()

		fn(writer, ctx.Request())

		return nil
	}
}

// ToMiddlewareHandler converts any of the supported middleware shapes
// into a MiddlewareHandler.
func ToMiddlewareHandler(handler interface{}) (MiddlewareHandler, error) {
	switch h := handler.(type) {
	case func(*Context) error:
		return handlerToMiddleware(h), nil
	case HandlerFunc:
		return handlerToMiddleware(h), nil
	case MiddlewareHandler:
		return h, nil
	case func(HandlerFunc) HandlerFunc:
		return h, nil
	case func(ctx *Context, next HandlerFunc) error:
		return cWrapper(h), nil
	case func(http.ResponseWriter, *http.Request):
		return handlerToMiddleware(httpHandlerToHandler(h)), nil
	case http.HandlerFunc:
		return handlerToMiddleware(httpHandlerToHandler(h)), nil
	}

	return nil, fmt.Errorf("middleware is of wrong type '%T'", handler)
}

// ToHandler converts any of the supported terminal handler shapes into
// a HandlerFunc.
func ToHandler(handler interface{}) (HandlerFunc, error) {
	switch h := handler.(type) {
	case HandlerFunc:
		return h, nil
	case func(*Context) error:
		return h, nil
	case Handler:
		return h.ServeHTTPContext, nil
	case func(http.ResponseWriter, *http.Request):
		return httpHandlerToHandler(h), nil
	case http.HandlerFunc:
		return httpHandlerToHandler(h), nil
	case http.Handler:
		return httpHandlerToHandler(h.ServeHTTP), nil
	default:
		return nil, fmt.Errorf("handler is of wrong type '%T'", handler)
	}
}

// Compose folds a handler list into a single HandlerFunc. The last
// element is the terminal handler; every element before it wraps the
// ones after it, so the chain executes left to right.
func Compose(handlers []interface{}) (HandlerFunc, error) {
	if len(handlers) == 0 {
		return nil, fmt.Errorf("compose of empty handler list")
	}

	routeHandler, err := ToHandler(handlers[len(handlers)-1])
	if err != nil {
		return nil, err
	}

	for i := len(handlers) - 2; i >= 0; i-- {
		middleware, err := ToMiddlewareHandler(handlers[i])
		if err != nil {
			return nil, err
		}
		routeHandler = middleware(routeHandler)
	}

	return routeHandler, nil
}

// Run executes a composed chain against the request, then flushes the
// staged status and body to the underlying writer. A chain that stages
// nothing resolves to strong.ErrNotFound so the caller can apply its
// not-found policy.
func Run(w http.ResponseWriter, r *http.Request, handler HandlerFunc) error {
	ctx := Acquire(w, r)
	defer Release(ctx)

	err := handler(ctx)

	if err != nil {
		if err == ErrHandled {
			return nil
		}
		return err
	}

	status := ctx.StatusCode()
	hasBody := ctx.Body() != nil

	if !hasBody && status <= 0 {
		return strong.ErrNotFound
	} else if hasBody && status <= 0 {
		status = strong.StatusOK
	}

	w.WriteHeader(status)
	if hasBody {
		if _, err := io.Copy(w, ctx.Body()); err != nil {
			return err
		}
	}

	return nil
}
