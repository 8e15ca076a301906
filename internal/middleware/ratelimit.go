package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimit caps requests per client IP to maxRequests per second using a
// fixed redis window.
func RateLimit(client *redis.Client, maxRequests int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		count, _ := client.Get(c.Request.Context(), key).Int()
		if count >= maxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		client.Incr(c.Request.Context(), key)
		client.Expire(c.Request.Context(), key, time.Second)
		c.Next()
	}
}
