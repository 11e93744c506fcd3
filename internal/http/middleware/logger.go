package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request, keyed by request_id so HTTP lines can
// be joined with application logs for the same request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Printf("[HTTP] request_id=%s status=%d method=%s path=%s bytes=%d latency_ms=%.3f ip=%s",
			GetRequestID(c),
			c.Writer.Status(),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Size(),
			float64(time.Since(start).Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
