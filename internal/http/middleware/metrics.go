package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/losaltoshacks/registration-backend/internal/observability"
)

// Metrics records request counts and latency per route template. Scrapes
// of skipPath are not recorded.
func Metrics(m *observability.Metrics, skipPath string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if skipPath != "" && c.Request.URL.Path == skipPath {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		// Unmatched paths share one label to bound cardinality.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
