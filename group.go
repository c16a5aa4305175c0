package waltz

import (
	"path"

	"go.uber.org/zap"

	"github.com/kildevaeld/strong"

	"github.com/davgren/waltz/httpcontext"
	"github.com/davgren/waltz/router"
)

type Namespace interface {
	Use(handlers ...interface{}) Namespace
	Get(path string, handlers ...interface{}) Namespace
	Post(path string, handlers ...interface{}) Namespace
	Put(path string, handlers ...interface{}) Namespace
	Patch(path string, handlers ...interface{}) Namespace
	Delete(path string, handlers ...interface{}) Namespace
	Head(path string, handlers ...interface{}) Namespace
	Options(path string, handlers ...interface{}) Namespace
	Any(path string, handlers ...interface{}) Namespace
	Route(method, path string, handlers ...interface{}) Namespace
	Mount(path string, group Mountable, middlewares ...interface{}) Namespace
}

// Mountable is anything that can compose itself into a single handler
// rooted at a path prefix.
type Mountable interface {
	Compose(root string) (httpcontext.HandlerFunc, error)
}

type groupMount struct {
	path  string
	group Mountable
	m     []httpcontext.MiddlewareHandler
}

// Group collects route rules and group-level middleware. Registration
// happens at startup; Compose freezes the set into one handler.
type Group struct {
	m      []httpcontext.MiddlewareHandler
	routes []Route
	groups []groupMount
}

func NewGroup() *Group {
	return &Group{}
}

// Use registers middleware that wraps every route and mount of this
// group. Invalid handler shapes panic at registration time.
func (g *Group) Use(handlers ...interface{}) Namespace {
	for _, handler := range handlers {
		m, err := httpcontext.ToMiddlewareHandler(handler)
		if err != nil {
			panic(err)
		}
		g.m = append(g.m, m)
	}

	return g
}

func (g *Group) Get(path string, handlers ...interface{}) Namespace {
	return g.Route(strong.GET, path, handlers...)
}

func (g *Group) Post(path string, handlers ...interface{}) Namespace {
	return g.Route(strong.POST, path, handlers...)
}

func (g *Group) Put(path string, handlers ...interface{}) Namespace {
	return g.Route(strong.PUT, path, handlers...)
}

func (g *Group) Patch(path string, handlers ...interface{}) Namespace {
	return g.Route(strong.PATCH, path, handlers...)
}

func (g *Group) Delete(path string, handlers ...interface{}) Namespace {
	return g.Route(strong.DELETE, path, handlers...)
}

func (g *Group) Head(path string, handlers ...interface{}) Namespace {
	return g.Route(strong.HEAD, path, handlers...)
}

func (g *Group) Options(path string, handlers ...interface{}) Namespace {
	return g.Route(strong.OPTIONS, path, handlers...)
}

// Any registers a rule matching every method.
func (g *Group) Any(path string, handlers ...interface{}) Namespace {
	return g.Route(router.MethodAny, path, handlers...)
}

func (g *Group) Route(method, path string, handlers ...interface{}) Namespace {
	if len(handlers) == 0 {
		return g
	}

	handler, err := httpcontext.Compose(handlers)
	if err != nil {
		panic(err)
	}

	g.routes = append(g.routes, Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})

	return g
}

func (g *Group) Mount(path string, group Mountable, middleware ...interface{}) Namespace {
	var m []httpcontext.MiddlewareHandler
	for _, mi := range middleware {
		h, e := httpcontext.ToMiddlewareHandler(mi)
		if e != nil {
			panic(e)
		}
		m = append(m, h)
	}

	g.groups = append(g.groups, groupMount{
		path:  path,
		group: group,
		m:     m,
	})

	return g
}

func wrap(hns []httpcontext.MiddlewareHandler, r httpcontext.HandlerFunc) []interface{} {
	out := make([]interface{}, len(hns)+1)
	for i, rr := range hns {
		out[i] = rr
	}
	out[len(hns)] = r

	return out
}

// Compose freezes the group into a single handler: a matcher over the
// group's own rules followed by each mounted subgroup in registration
// order. A step reporting strong.ErrNotFound falls through to the next;
// the composed handler reports it only when nothing matched.
func (g *Group) Compose(root string) (httpcontext.HandlerFunc, error) {
	matcher := router.New()
	for _, route := range g.routes {
		p := route.Path
		if root != "" {
			p = path.Join(root, route.Path)
		}

		handler, err := httpcontext.Compose(wrap(g.m, route.Handler))
		if err != nil {
			return nil, err
		}

		zap.L().Debug("register route", zap.String("method", route.Method), zap.String("path", p))

		matcher.Handle(route.Method, p, handler)
	}

	steps := []httpcontext.HandlerFunc{matcher.ServeHTTPContext}

	for _, subgroup := range g.groups {
		p := subgroup.path
		if root != "" {
			p = path.Join(root, subgroup.path)
		}

		handler, err := subgroup.group.Compose(p)
		if err != nil {
			return nil, err
		}

		if handler, err = httpcontext.Compose(wrap(g.m, handler)); err != nil {
			return nil, err
		}

		if len(subgroup.m) > 0 {
			if handler, err = httpcontext.Compose(wrap(subgroup.m, handler)); err != nil {
				return nil, err
			}
		}

		zap.L().Debug("register subgroup", zap.String("path", p))

		steps = append(steps, handler)
	}

	return func(ctx *httpcontext.Context) error {
		var err error
		for _, step := range steps {
			if err = step(ctx); err != nil {
				if err != strong.ErrNotFound {
					return err
				}
				continue
			}

			if ctx.Body() != nil || ctx.StatusCode() > 0 {
				return nil
			}
		}

		return err
	}, nil
}
