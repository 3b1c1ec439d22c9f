package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/common"
	"github.com/gpulab/gpuboard/internal/ratelimit"
)

// RateLimit guards a route with the per-address sliding window. Denials carry
// the exact seconds until the caller's window resets.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := limiter.Allow(c.ClientIP())
		if !allowed {
			err := &common.RateLimitError{RetryAfter: retryAfter}
			c.Header("Retry-After", strconv.Itoa(err.RetryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    42900,
				"message": err.Error(),
				"data":    gin.H{"retry_after": err.RetryAfter},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
