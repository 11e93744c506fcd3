package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"railbook/internal/analytics"
)

// EventPublisher is the slice of the analytics logger this middleware needs.
type EventPublisher interface {
	Publish(e analytics.Event)
}

// APIEvents records one analytics event per request on the routes it wraps:
// method, response status and elapsed time, plus the authenticated user when
// the auth middleware ran first. Publishing is fire-and-forget; the request
// outcome is never affected by the sink.
func APIEvents(sink EventPublisher, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if sink == nil {
			return
		}

		status := c.Writer.Status()
		outcome := "ok"
		if status >= 400 {
			outcome = "error"
		}

		var userID int64
		if rc, ok := GetAuth(c); ok {
			userID = rc.UserID
		}

		sink.Publish(analytics.Event{
			Endpoint:  endpoint,
			Method:    c.Request.Method,
			UserID:    userID,
			Outcome:   outcome,
			Status:    status,
			ElapsedMS: float64(time.Since(start).Microseconds()) / 1000.0,
		})
	}
}
