package middleware

import (
	"github.com/bank-accounts-service/internal/platform/correlation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDKey is the gin context key holding the request's correlation ID.
const CorrelationIDKey = "correlation_id"

// CorrelationID accepts the caller's X-Correlation-ID or generates one, echoes it on the
// response and makes it visible both to gin handlers and to anything reading the request
// context (outbox events, outbound directory calls).
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(correlation.Header)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Header(correlation.Header, correlationID)
		c.Set(CorrelationIDKey, correlationID)
		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), correlationID))

		c.Next()
	}
}

func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
