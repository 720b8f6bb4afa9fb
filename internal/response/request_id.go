package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware assigns every request the id echoed in the response
// envelope's metadata and in the X-Request-ID header. A client-supplied
// X-Request-ID is kept as-is so one id can follow a request across hops.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// RequestID returns the request's id, or "" when the middleware did not run.
func RequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
