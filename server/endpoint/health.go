// Package endpoint holds the relay's operational endpoints.
package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// timestampLayout renders UTC times with millisecond precision and a Z
// suffix, e.g. 2024-05-01T12:00:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Health reports {"status":"OK","timestamp":...}. now may be nil.
func Health(now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": now().UTC().Format(timestampLayout),
		})
	}
}
