package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Responses below this size are served uncompressed.
const compressMinLength = 1024

// Compress serves brotli-encoded responses to clients that advertise
// support. Small bodies and WebSocket upgrades pass through unchanged.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsBrotli(c.Request) || isUpgrade(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		cw := &compressWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()
		c.Writer = cw.ResponseWriter

		if err := cw.finish(); err != nil {
			_ = c.Error(err)
		}
	}
}

// compressWriter buffers the whole response so the encoding decision
// can be made on the final body size.
type compressWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *compressWriter) Write(data []byte) (int, error) {
	w.body = append(w.body, data...)
	return len(data), nil
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) finish() error {
	if len(w.body) == 0 {
		return nil
	}
	if len(w.body) < compressMinLength {
		_, err := w.ResponseWriter.Write(w.body)
		return err
	}

	w.Header().Set("Content-Encoding", "br")
	w.Header().Del("Content-Length")

	bw := brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
	if _, err := bw.Write(w.body); err != nil {
		return err
	}
	return bw.Close()
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
