package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// RequestLogging logs each request once it has been handled.
func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.logger == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			fields := logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     responseStatus(c, err),
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				fields["request_id"] = rid
			}
			m.logger.WithFields(fields).Debug("handled request")
			return err
		}
	}
}
