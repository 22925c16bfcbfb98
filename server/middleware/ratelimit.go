package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/resilience"
)

// RateLimit rejects clients over their per-IP budget with 429.
func RateLimit(limiter *resilience.KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			appErr := errors.RateLimited()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Next()
	}
}
