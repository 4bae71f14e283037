package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery builds on gin's recovery, which already skips broken client connections, and
// sends every other panic to slog before handing the request to respond. respond writes
// the error body; the chain is aborted afterwards either way.
func Recovery(logger *slog.Logger, respond gin.HandlerFunc) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		logger.Error("Handler panicked",
			"panic", fmt.Sprint(recovered),
			"route", route,
			"method", c.Request.Method,
			"correlation_id", GetCorrelationID(c),
			"stack", string(debug.Stack()),
		)

		respond(c)
		c.Abort()
	})
}
