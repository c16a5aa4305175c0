package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kildevaeld/strong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davgren/waltz/httpcontext"
	"github.com/davgren/waltz/middlewares/auth"
)

func newAuthenticator() *auth.Authenticator {
	return auth.New(auth.Options{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		TTL:    time.Hour,
		Issuer: "test",
	})
}

func johnClaims() []httpcontext.Claim {
	return []httpcontext.Claim{
		{Type: httpcontext.ClaimTypeName, Value: "John", Issuer: "test"},
		{Type: httpcontext.ClaimTypeRole, Value: "Admin", Issuer: "test"},
	}
}

// signIn runs a sign-in chain and returns the issued session cookie.
func signIn(t *testing.T, a *auth.Authenticator) *http.Cookie {
	t.Helper()

	chain, err := httpcontext.Compose([]interface{}{
		func(ctx *httpcontext.Context) error {
			if err := a.SignIn(ctx, johnClaims()...); err != nil {
				return err
			}
			return ctx.Text("ok")
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	require.NoError(t, httpcontext.Run(rec, req, chain))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
	return cookies[0]
}

func protected(a *auth.Authenticator, extra ...interface{}) (httpcontext.HandlerFunc, error) {
	handlers := []interface{}{a.Authenticated()}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(ctx *httpcontext.Context) error {
		return ctx.Text(ctx.Identity().Name())
	})
	return httpcontext.Compose(handlers)
}

func TestAuthenticatedDeniesWithoutCookie(t *testing.T) {
	a := newAuthenticator()

	chain, err := protected(a)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	require.NoError(t, httpcontext.Run(rec, req, chain))

	assert.Equal(t, strong.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied", rec.Body.String())
}

func TestAuthenticatedAttachesIdentity(t *testing.T) {
	a := newAuthenticator()
	cookie := signIn(t, a)

	chain, err := protected(a)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(cookie)
	require.NoError(t, httpcontext.Run(rec, req, chain))

	assert.Equal(t, strong.StatusOK, rec.Code)
	assert.Equal(t, "John", rec.Body.String())
}

func TestAuthenticatedDeniesTamperedToken(t *testing.T) {
	a := newAuthenticator()
	cookie := signIn(t, a)
	cookie.Value += "x"

	chain, err := protected(a)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(cookie)
	require.NoError(t, httpcontext.Run(rec, req, chain))

	assert.Equal(t, strong.StatusUnauthorized, rec.Code)
}

func TestRequireClaim(t *testing.T) {
	a := newAuthenticator()
	cookie := signIn(t, a)

	match, err := protected(a, a.RequireClaim(httpcontext.ClaimTypeName, "John"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/john-only", nil)
	req.AddCookie(cookie)
	require.NoError(t, httpcontext.Run(rec, req, match))
	assert.Equal(t, strong.StatusOK, rec.Code)

	mismatch, err := protected(a, a.RequireClaim(httpcontext.ClaimTypeName, "Jane"))
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/jane-only", nil)
	req.AddCookie(cookie)
	require.NoError(t, httpcontext.Run(rec, req, mismatch))
	assert.Equal(t, strong.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied", rec.Body.String())
}

func TestRequireRoleStandsAlone(t *testing.T) {
	a := newAuthenticator()
	cookie := signIn(t, a)

	chain, err := httpcontext.Compose([]interface{}{
		a.RequireRole("Admin"),
		func(ctx *httpcontext.Context) error { return ctx.Text("admin area") },
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	require.NoError(t, httpcontext.Run(rec, req, chain))
	assert.Equal(t, strong.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	require.NoError(t, httpcontext.Run(rec, req, chain))
	assert.Equal(t, strong.StatusUnauthorized, rec.Code)
}

func TestSignOutExpiresCookie(t *testing.T) {
	a := newAuthenticator()

	chain, err := httpcontext.Compose([]interface{}{
		func(ctx *httpcontext.Context) error {
			a.SignOut(ctx)
			return ctx.Text("bye")
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	require.NoError(t, httpcontext.Run(rec, req, chain))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0 || cookies[0].Expires.Before(time.Now()))
}
