package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/faredrop/fare-discovery-engine/internal/adapter/http/response"
)

// Recover returns middleware that recovers from panics in the handler
// chain. It logs the panic with a stack trace and returns a 500 Internal
// Server Error; the server keeps handling subsequent requests. Panics
// inside batch workers are caught by the orchestrator itself, so anything
// arriving here escaped the handler layer proper.
func Recover(log zerolog.Logger) echo.MiddlewareFunc {
	return RecoverWithStack(log, true)
}

// RecoverWithStack is Recover with control over stack trace logging.
// Disabling the stack keeps log lines short in tests.
func RecoverWithStack(log zerolog.Logger, printStack bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					var panicMsg string
					if err, ok := r.(error); ok {
						panicMsg = err.Error()
					} else {
						panicMsg = fmt.Sprintf("%v", r)
					}

					event := log.Error().
						Str("request_id", GetRequestID(c)).
						Str("panic", panicMsg)
					if printStack {
						event = event.Str("stack", string(debug.Stack()))
					}
					event.Msg("Panic recovered")

					// Generic body only; panic values can carry internals.
					if !c.Response().Committed {
						_ = c.JSON(http.StatusInternalServerError, &response.ErrorDetail{
							Code:    response.CodeInternalError,
							Message: response.MsgInternalError,
						})
					}
				}
			}()

			return next(c)
		}
	}
}
