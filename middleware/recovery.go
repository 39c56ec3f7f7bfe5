package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/docvault/server/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery converts handler panics into a 500 response. The stack trace is
// logged with the request context so the request id travels with it.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": GetRequestID(c),
				})
			}
		}()

		c.Next()
	}
}
