package handler

import "github.com/gin-gonic/gin"

// sseHeaders marks the response as a server-sent event stream.
func sseHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}
