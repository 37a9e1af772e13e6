// middleware/brotli.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Responses smaller than this go out uncompressed; the brotli window
// header alone would cost more than it saves.
const brotliMinSize = 1024

// Static file groups pass through untouched. Uploads are mostly images
// and PDFs, exports are xlsx; both formats are already compressed.
var brotliSkipPrefixes = []string{"/uploads/", "/exports/"}

// brWriter buffers the response until it knows whether compression is
// worth it, then commits to either the brotli stream or the raw writer.
type brWriter struct {
	gin.ResponseWriter
	br      *brotli.Writer
	pending []byte
	// 0 undecided, 1 raw, 2 compressed
	mode int
}

func (w *brWriter) Write(p []byte) (int, error) {
	switch w.mode {
	case 2:
		return w.br.Write(p)
	case 1:
		return w.ResponseWriter.Write(p)
	}

	w.pending = append(w.pending, p...)
	if len(w.pending) < brotliMinSize {
		return len(p), nil
	}

	w.mode = 2
	w.Header().Set("Content-Encoding", "br")
	w.Header().Del("Content-Length")
	if _, err := w.br.Write(w.pending); err != nil {
		return 0, err
	}
	w.pending = nil
	return len(p), nil
}

func (w *brWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush keeps streaming endpoints working: anything still buffered goes
// out raw and the flush reaches the real writer.
func (w *brWriter) Flush() {
	if w.mode == 0 {
		w.mode = 1
		if len(w.pending) > 0 {
			_, _ = w.ResponseWriter.Write(w.pending)
			w.pending = nil
		}
	}
	w.ResponseWriter.Flush()
}

// close drains whatever is left once the handler chain returns.
func (w *brWriter) close() {
	if w.mode == 2 {
		_ = w.br.Close()
		return
	}
	if len(w.pending) > 0 {
		_, _ = w.ResponseWriter.Write(w.pending)
		w.pending = nil
	}
}

// Brotli compresses JSON responses for clients that advertise br
// support. Streams, upgrades and static file paths pass through
// untouched.
func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !wantsBrotli(c.Request) || passthrough(c) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		w := &brWriter{
			ResponseWriter: c.Writer,
			br:             brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression),
		}
		c.Writer = w
		defer w.close()

		c.Next()
	}
}

func passthrough(c *gin.Context) bool {
	// SSE needs every frame on the wire immediately.
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		return true
	}
	// The WebSocket handshake fails behind a wrapped writer.
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	for _, prefix := range brotliSkipPrefixes {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func wantsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
