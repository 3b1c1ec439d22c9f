package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/common"
)

const RequestIDKey = "request_id"

// RequestID honors an incoming X-Request-ID or mints a ULID, and echoes it on
// the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			if v, err := common.NewULID(); err == nil {
				id = v
			}
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
