package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger returns middleware that logs HTTP requests on completion
// with method, path, status, duration, and client info. A debug line is
// emitted when the request is accepted; paced discovery runs can hold the
// connection for many minutes, and the accept line is the only sign of
// life until the run finishes.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := GetRequestID(c)
			req := c.Request()

			log.Debug().
				Str("request_id", reqID).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Msg("Request accepted")

			err := next(c)
			if err != nil {
				// Let Echo's error handler produce the response first so
				// the completion line carries the real status code.
				c.Error(err)
			}

			res := c.Response()
			status := res.Status

			var event *zerolog.Event
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}

			event.
				Str("request_id", reqID).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("bytes_out", res.Size).
				Str("client_ip", c.RealIP()).
				Msg("Request complete")

			// The error has already been converted into a response.
			return nil
		}
	}
}
