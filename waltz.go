// Package waltz is a small declarative request router built around
// handler-chain composition: every route is an ordered chain of steps
// that may short-circuit, delegate, or mutate the request context
// before delegating.
package waltz

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/kildevaeld/strong"
	"go.uber.org/zap"

	"github.com/davgren/waltz/httpcontext"
)

type Options struct {
	Debug       bool
	HandleError func(w http.ResponseWriter, r *http.Request, err error)
}

// Waltz owns the route table and the HTTP server. Routes registered
// after the first dispatch are ignored; the composed chain is frozen.
type Waltz struct {
	noCopy
	group     *Group
	listening bool

	s *http.Server

	once  sync.Once
	chain httpcontext.HandlerFunc
	cerr  error

	o *Options
}

func New() *Waltz {
	return NewWithOptions(nil)
}

func NewWithOptions(o *Options) *Waltz {
	if o == nil {
		o = &Options{}
	}
	v := &Waltz{
		s:     &http.Server{},
		group: NewGroup(),
		o:     o,
	}

	v.s.Handler = v

	return v
}

func (v *Waltz) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.once.Do(func() {
		v.chain, v.cerr = v.group.Compose("")
	})

	if v.cerr != nil {
		v.handleError(w, r, v.cerr)
		return
	}

	if err := httpcontext.Run(w, r, v.chain); err != nil {
		v.handleError(w, r, err)
	}
}

func (v *Waltz) Listen(addr string) error {
	if v.listening {
		return errors.New("already running")
	}
	v.listening = true
	v.s.Addr = addr

	if v.o.Debug {
		zap.L().Debug("listening", zap.String("addr", addr))
	}
	return v.s.ListenAndServe()
}

func (v *Waltz) Close() error {
	if v.s == nil {
		return nil
	}
	return v.s.Close()
}

func (v *Waltz) Shutdown(ctx context.Context) error {
	if v.s == nil {
		return nil
	}
	return v.s.Shutdown(ctx)
}

func (v *Waltz) Use(handlers ...interface{}) *Waltz {
	v.group.Use(handlers...)
	return v
}

func (v *Waltz) Mount(path string, group Mountable, middleware ...interface{}) *Waltz {
	v.group.Mount(path, group, middleware...)
	return v
}

func (v *Waltz) Get(path string, handlers ...interface{}) *Waltz {
	return v.Route(strong.GET, path, handlers...)
}

func (v *Waltz) Post(path string, handlers ...interface{}) *Waltz {
	return v.Route(strong.POST, path, handlers...)
}

func (v *Waltz) Patch(path string, handlers ...interface{}) *Waltz {
	return v.Route(strong.PATCH, path, handlers...)
}

func (v *Waltz) Put(path string, handlers ...interface{}) *Waltz {
	return v.Route(strong.PUT, path, handlers...)
}

func (v *Waltz) Delete(path string, handlers ...interface{}) *Waltz {
	return v.Route(strong.DELETE, path, handlers...)
}

func (v *Waltz) Head(path string, handlers ...interface{}) *Waltz {
	return v.Route(strong.HEAD, path, handlers...)
}

func (v *Waltz) Options(path string, handlers ...interface{}) *Waltz {
	return v.Route(strong.OPTIONS, path, handlers...)
}

func (v *Waltz) Route(method, path string, handlers ...interface{}) *Waltz {
	v.group.Route(method, path, handlers...)
	return v
}

// handleError is the terminal fault policy: route misses answer 400
// "Not found", redirect errors redirect, typed HTTP errors keep their
// status, and anything else becomes a 500 carrying the fault message.
// A fault never takes the process down.
func (v *Waltz) handleError(w http.ResponseWriter, r *http.Request, err error) {
	// strong.ErrNotFound is itself a *strong.HttpError, so the route-miss
	// policy must be decided before the type switch.
	if err == strong.ErrNotFound {
		writeError(w, strong.StatusBadRequest, "Not found")
		if v.o.HandleError != nil {
			v.o.HandleError(w, r, err)
		}
		return
	}

	switch e := err.(type) {
	case *httpcontext.RedirectError:
		http.Redirect(w, r, e.URL(), e.Status())
	case *strong.HttpError:
		writeError(w, e.StatusCode(), e.Error())
	default:
		zap.L().Error("unhandled fault", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, strong.StatusInternalServerError, err.Error())
	}

	if v.o.HandleError != nil {
		v.o.HandleError(w, r, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set(strong.HeaderContentType, strong.MIMETextPlain)
	w.WriteHeader(status)
	w.Write([]byte(msg))
}
