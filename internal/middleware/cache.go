package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CacheControl marks responses cacheable for maxAge seconds. Pass
// immutable for content that never changes under its URL, like the
// UUID-named upload files.
func CacheControl(maxAge int, immutable bool) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(maxAge)
	if immutable {
		value += ", immutable"
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
