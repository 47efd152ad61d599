package middleware

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gin-gonic/gin"
)

type Message struct {
	Status string `json:"status"`
	Body   string `json:"body"`
}

// RateLimitMiddleware allows maxRequests per minute per client IP. Requests
// over the limit are handed to onLimit, or answered with a JSON message when
// onLimit is nil.
func RateLimitMiddleware(maxRequests float64, onLimit gin.HandlerFunc) gin.HandlerFunc {
	perSecond := maxRequests / 60.0
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})

	burst := int(maxRequests)
	if burst < 1 {
		burst = 1
	}
	lmt.SetBurst(burst)

	return func(c *gin.Context) {
		if httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); httpError != nil {
			if onLimit != nil {
				c.Status(http.StatusTooManyRequests)
				onLimit(c)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, Message{
				Status: "Request Failed",
				Body:   "Too many requests, try again later.",
			})
			return
		}
		c.Next()
	}
}
