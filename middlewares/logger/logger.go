// Package logger logs request start/finish through zap.
package logger

import (
	"time"

	"github.com/kildevaeld/strong"
	"go.uber.org/zap"

	"github.com/davgren/waltz/httpcontext"
)

func Logger() httpcontext.MiddlewareHandler {
	return LoggerWithZap(zap.L())
}

func LoggerWithZap(log *zap.Logger) httpcontext.MiddlewareHandler {
	return func(next httpcontext.HandlerFunc) httpcontext.HandlerFunc {
		return func(ctx *httpcontext.Context) error {
			start := time.Now()

			req := ctx.Request()

			entry := log.With(zap.String("request", req.URL.String()),
				zap.String("method", req.Method),
				zap.String("remote", req.RemoteAddr))

			if reqID := req.Header.Get("X-Request-Id"); reqID != "" {
				entry = entry.With(zap.String("request_id", reqID))
			}

			entry.Debug("started handling request")
			if err := next(ctx); err != nil {
				entry.Info("request failed", zap.Error(err))
				return err
			}

			latency := time.Since(start)

			status := ctx.StatusCode()
			hasBody := ctx.Body() != nil
			if status == 0 {
				if hasBody {
					status = strong.StatusOK
				} else {
					status = strong.StatusNotFound
				}
			}

			entry.Info("completed handling request",
				zap.Int("status", status),
				zap.String("text_status", strong.StatusText(status)),
				zap.Duration("took", latency))

			return nil
		}
	}
}
