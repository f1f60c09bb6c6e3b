package middleware

import "github.com/gin-gonic/gin"

// Guard inspects a request and returns an error to reject it
type Guard func(c *gin.Context) error

// Pipeline runs guards in order. The first error is written through
// HandleAPIError and the remaining guards and handlers are skipped.
func Pipeline(guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, guard := range guards {
			if err := guard(c); err != nil {
				HandleAPIError(c, err)
				return
			}
		}
		c.Next()
	}
}
