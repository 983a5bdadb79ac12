package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// BodyLimit caps the request body size. Oversized uploads fail inside the
// handler's read; the error is translated to a 413 here.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && err.Err.Error() == "http: request body too large" {
				response.Error(c, http.StatusRequestEntityTooLarge, 41301, "request body too large")
				return
			}
		}
	}
}
