package waltz

import "github.com/davgren/waltz/httpcontext"

// HandlerFunc and MiddlewareHandler are re-exported so applications can
// declare chains without importing httpcontext directly.
type HandlerFunc = httpcontext.HandlerFunc

type MiddlewareHandler = httpcontext.MiddlewareHandler

// Route is a single immutable rule: method plus path template bound to
// an already-composed handler chain.
type Route struct {
	Method  string
	Path    string
	Handler httpcontext.HandlerFunc
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
