// Package web carries the request-scoped application context.
package web

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AppContext struct {
	echo.Context
	AppLogger *zap.Logger
}

// CreateAppContext wraps every request context with the application logger.
func CreateAppContext(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, logger}
			return next(cc)
		}
	}
}

// Logger returns the request's application logger, falling back to a no-op
// logger when the middleware is not installed.
func Logger(c echo.Context) *zap.Logger {
	if cc, ok := c.(*AppContext); ok {
		return cc.AppLogger
	}
	return zap.NewNop()
}
