package httpcontext

import (
	"errors"
)

// RedirectError aborts a chain and instructs the server boundary to
// answer with a redirect.
type RedirectError struct {
	status int
	url    string
}

func (r *RedirectError) Error() string {
	return r.url
}

func (r *RedirectError) Status() int {
	return r.status
}

func (r *RedirectError) URL() string {
	return r.url
}

var (
	// ErrHandled signals that a handler already produced the response
	// through the raw writer and no flush is required.
	ErrHandled = errors.New("already handled")
)
