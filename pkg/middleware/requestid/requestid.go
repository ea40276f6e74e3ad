package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerKey  = "X-Request-ID"
	contextKey = "request_id"
)

// Middleware tags each request with an ID for log correlation. An inbound
// X-Request-ID header is trusted and propagated; otherwise a UUID is minted.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerKey)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(contextKey, reqID)
		c.Writer.Header().Set(headerKey, reqID)
		c.Next()
	}
}

// Value returns the request ID stored in the Gin context, or "" outside the
// middleware.
func Value(c *gin.Context) string {
	id, _ := c.Value(contextKey).(string)
	return id
}
