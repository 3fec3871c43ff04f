package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimitConfig holds configuration for the request body limit middleware
type BodyLimitConfig struct {
	// MaxBytes is the largest accepted request body
	MaxBytes int64
}

// BodyLimit rejects requests whose declared length exceeds maxBytes and
// caps streaming bodies at the same size.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithConfig(BodyLimitConfig{MaxBytes: maxBytes})
}

// BodyLimitWithConfig creates body limit middleware with custom config
func BodyLimitWithConfig(cfg BodyLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > cfg.MaxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_PAYLOAD_TOO_LARGE",
					"message": "Request body exceeds the maximum allowed size",
				},
			})
			return
		}

		// Chunked uploads carry no Content-Length; the reader enforces the cap
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBytes)
		c.Next()
	}
}
