package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, requestID string) {
			ctx := shell.WithCorrelationID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	s.echo.Use(s.accessLog())
}

func (s *Server) accessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.InfoContext(c.Request().Context(), "http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"ip", c.RealIP(),
			)

			return nil
		}
	}
}
