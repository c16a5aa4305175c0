// Package auth provides cookie-session authentication as handler-chain
// combinators. A sign-in issues an HMAC-signed token in an HttpOnly
// cookie; the combinators verify it and attach the claims set to the
// request context, short-circuiting with 401 when verification fails.
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/kildevaeld/strong"

	"github.com/davgren/waltz/httpcontext"
)

const (
	DefaultCookie = "waltz_session"
	DefaultTTL    = 24 * time.Hour

	accessDenied = "Access denied"
)

type Options struct {
	// Secret signs the session token. Required.
	Secret []byte
	// Cookie is the session cookie name.
	Cookie string
	// TTL bounds the session lifetime.
	TTL time.Duration
	// Issuer is recorded on issued tokens.
	Issuer string
}

type Authenticator struct {
	o Options
}

func New(o Options) *Authenticator {
	if len(o.Secret) == 0 {
		panic("auth: secret is required")
	}
	if o.Cookie == "" {
		o.Cookie = DefaultCookie
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	return &Authenticator{o: o}
}

type sessionClaims struct {
	Claims []httpcontext.Claim `json:"cls"`
	jwt.StandardClaims
}

// SignIn issues a session cookie carrying the claim set and attaches
// the resulting identity to the current request.
func (a *Authenticator) SignIn(ctx *httpcontext.Context, claims ...httpcontext.Claim) error {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &sessionClaims{
		Claims: claims,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.o.TTL).Unix(),
			Issuer:    a.o.Issuer,
		},
	})

	signed, err := token.SignedString(a.o.Secret)
	if err != nil {
		return err
	}

	http.SetCookie(ctx.Response(), &http.Cookie{
		Name:     a.o.Cookie,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(a.o.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	ctx.SetIdentity(httpcontext.NewIdentity(claims...))
	return nil
}

// SignOut expires the session cookie.
func (a *Authenticator) SignOut(ctx *httpcontext.Context) {
	http.SetCookie(ctx.Response(), &http.Cookie{
		Name:     a.o.Cookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	ctx.SetIdentity(nil)
}

func (a *Authenticator) identity(ctx *httpcontext.Context) (*httpcontext.Identity, error) {
	cookie, err := ctx.Request().Cookie(a.o.Cookie)
	if err != nil {
		return nil, err
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.o.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	return httpcontext.NewIdentity(claims.Claims...), nil
}

// Authenticated verifies the session cookie and attaches the identity,
// or answers 401 without invoking downstream handlers.
func (a *Authenticator) Authenticated() httpcontext.MiddlewareHandler {
	return func(next httpcontext.HandlerFunc) httpcontext.HandlerFunc {
		return func(ctx *httpcontext.Context) error {
			ident, err := a.identity(ctx)
			if err != nil {
				return deny(ctx)
			}
			ctx.SetIdentity(ident)
			return next(ctx)
		}
	}
}

// RequireClaim passes only identities carrying the given claim. It
// resolves the session itself when no upstream step attached one, so it
// can stand alone in a chain.
func (a *Authenticator) RequireClaim(typ, value string) httpcontext.MiddlewareHandler {
	return func(next httpcontext.HandlerFunc) httpcontext.HandlerFunc {
		return func(ctx *httpcontext.Context) error {
			ident := ctx.Identity()
			if ident == nil {
				var err error
				if ident, err = a.identity(ctx); err != nil {
					return deny(ctx)
				}
				ctx.SetIdentity(ident)
			}
			if !ident.HasClaim(typ, value) {
				return deny(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireRole passes only identities carrying the given role claim.
func (a *Authenticator) RequireRole(role string) httpcontext.MiddlewareHandler {
	return a.RequireClaim(httpcontext.ClaimTypeRole, role)
}

// Authorization failures are answered locally: 401 with a plain body,
// the chain stops here.
func deny(ctx *httpcontext.Context) error {
	ctx.SetStatusCode(strong.StatusUnauthorized)
	return ctx.Text(accessDenied)
}
