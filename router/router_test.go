package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kildevaeld/strong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davgren/waltz/httpcontext"
	"github.com/davgren/waltz/router"
)

func dispatch(t *testing.T, r *router.Router, method, path string) (*httpcontext.Context, error, func()) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	ctx := httpcontext.Acquire(rec, req)
	err := r.ServeHTTPContext(ctx)
	return ctx, err, func() { httpcontext.Release(ctx) }
}

func respond(body string) httpcontext.HandlerFunc {
	return func(ctx *httpcontext.Context) error {
		return ctx.Text(body)
	}
}

func TestFirstMatchWins(t *testing.T) {
	r := router.New()
	r.Handle(strong.GET, "/thing", respond("first"))
	r.Handle(strong.GET, "/thing", respond("second"))

	ctx, err, release := dispatch(t, r, http.MethodGet, "/thing")
	defer release()
	require.NoError(t, err)

	bs := make([]byte, 16)
	n, _ := ctx.Body().Read(bs)
	assert.Equal(t, "first", string(bs[:n]))
}

func TestCapturesBindParams(t *testing.T) {
	r := router.New()

	var greeting string
	r.Handle(strong.GET, "/world/:greeting", func(ctx *httpcontext.Context) error {
		greeting = ctx.Params().ByName("greeting")
		return ctx.Text("ok")
	})

	_, err, release := dispatch(t, r, http.MethodGet, "/world/hello")
	defer release()
	require.NoError(t, err)
	assert.Equal(t, "hello", greeting)
}

func TestIntCaptureRejectsNonIntegers(t *testing.T) {
	r := router.New()
	r.Handle(strong.GET, "/user/:id:int", respond("ok"))

	_, err, release := dispatch(t, r, http.MethodGet, "/user/42")
	release()
	require.NoError(t, err)

	_, err, release = dispatch(t, r, http.MethodGet, "/user/john")
	release()
	assert.Equal(t, strong.ErrNotFound, err)
}

func TestMethodMustMatch(t *testing.T) {
	r := router.New()
	r.Handle(strong.POST, "/submit", respond("ok"))

	_, err, release := dispatch(t, r, http.MethodGet, "/submit")
	release()
	assert.Equal(t, strong.ErrNotFound, err)

	_, err, release = dispatch(t, r, http.MethodPost, "/submit")
	release()
	assert.NoError(t, err)
}

func TestAnyMethodMatches(t *testing.T) {
	r := router.New()
	r.Handle(router.MethodAny, "/anything", respond("ok"))

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		_, err, release := dispatch(t, r, method, "/anything")
		release()
		assert.NoError(t, err, method)
	}
}

func TestUnmatchedPathReportsNotFound(t *testing.T) {
	r := router.New()
	r.Handle(strong.GET, "/known", respond("ok"))

	_, err, release := dispatch(t, r, http.MethodGet, "/unknown")
	release()
	assert.Equal(t, strong.ErrNotFound, err)

	_, err, release = dispatch(t, r, http.MethodGet, "/known/extra")
	release()
	assert.Equal(t, strong.ErrNotFound, err)
}

func TestRootTemplate(t *testing.T) {
	r := router.New()
	r.Handle(strong.GET, "/", respond("index"))

	_, err, release := dispatch(t, r, http.MethodGet, "/")
	release()
	assert.NoError(t, err)
}

func TestMalformedTemplatePanics(t *testing.T) {
	r := router.New()
	assert.Panics(t, func() { r.Handle(strong.GET, "/x/:id:uuid", respond("ok")) })
	assert.Panics(t, func() { r.Handle(strong.GET, "no-slash", respond("ok")) })
}
