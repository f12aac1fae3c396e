package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

type contextKey string

const loggerKey = contextKey("logger")

// Logger injects a request-scoped logger carrying the request ID and logs
// each completed request. It must run after the RequestID middleware.
func Logger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		requestLogger := slog.Default().With("request_id", reqID)
		setLogger(c, requestLogger)

		start := time.Now()
		err := next(c)
		if err != nil {
			// Let the HTTP error handler write the response so the status is final.
			c.Error(err)
		}

		FromContext(c.Request().Context()).Info("Request handled",
			"method", req.Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"latency", time.Since(start),
		)
		return nil
	}
}

func setLogger(c echo.Context, l *slog.Logger) {
	ctx := context.WithValue(c.Request().Context(), loggerKey, l)
	c.SetRequest(c.Request().WithContext(ctx))
}

// FromContext returns the request logger, or the default logger outside a
// request.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
