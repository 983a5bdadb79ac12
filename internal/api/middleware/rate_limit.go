package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandunsrimal/university-course-management/pkg/redis"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// RateLimit throttles a route per client IP using a Redis counter.
// A nil client or a Redis failure fails open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 42901, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
