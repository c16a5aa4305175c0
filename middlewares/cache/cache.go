// Package cache sets response caching headers after a successful
// downstream run. It only shapes Cache-Control/Vary/Expires; it does
// not store responses.
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/kildevaeld/strong"

	"github.com/davgren/waltz/httpcontext"
)

// Policy describes one caching variant.
type Policy struct {
	// MaxAge in seconds. Ignored when NoCache is set.
	MaxAge int
	// Private scopes the directive to the end client.
	Private bool
	// NoCache disables caching entirely ("no-store, no-cache").
	NoCache bool
	// VaryBy lists request headers the cached response varies on.
	VaryBy []string
}

const defaultMaxAge = 7 * 24 * 60 * 60

func New(p *Policy) httpcontext.MiddlewareHandler {
	if p == nil {
		p = &Policy{MaxAge: defaultMaxAge}
	}
	maxAge := p.MaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}

	return func(next httpcontext.HandlerFunc) httpcontext.HandlerFunc {
		return func(ctx *httpcontext.Context) error {
			if err := next(ctx); err != nil {
				return err
			} else if !(strong.IsSuccess(ctx.StatusCode()) || ctx.StatusCode() == 0) {
				return nil
			}

			if p.NoCache {
				ctx.Header().Set(strong.HeaderCacheControl, "no-store, no-cache")
				return nil
			}

			// An explicit no-cache from the client wins.
			cacheCtrl := ctx.Request().Header.Get(strong.HeaderCacheControl)
			if strings.ToLower(cacheCtrl) == "no-cache" {
				return nil
			}

			scope := "public"
			if p.Private {
				scope = "private"
			}

			ctx.Header().Set(strong.HeaderCacheControl, fmt.Sprintf("%s, max-age=%d", scope, maxAge))

			for _, key := range p.VaryBy {
				ctx.Header().Add(strong.HeaderVary, key)
			}

			expires := time.Now().Add(time.Duration(maxAge) * time.Second)
			ctx.Header().Set("Expires", expires.Format(time.RFC1123))

			return nil
		}
	}
}
