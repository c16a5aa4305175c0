// Package panic converts handler panics into chain errors so the
// server's fault policy can answer 500 instead of dropping the
// connection.
package panic

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/davgren/waltz/httpcontext"
)

func New() httpcontext.MiddlewareHandler {
	return func(next httpcontext.HandlerFunc) httpcontext.HandlerFunc {
		return func(ctx *httpcontext.Context) (err error) {
			defer func() {
				if e := recover(); e != nil {
					if errerr, ok := e.(error); ok {
						err = errerr
					} else {
						err = fmt.Errorf("%s", e)
					}
					zap.L().Error("recovered from panic",
						zap.String("path", ctx.Request().URL.Path),
						zap.Error(err))
				}
			}()
			err = next(ctx)
			return err
		}
	}
}
