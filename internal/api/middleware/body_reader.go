package middleware

import (
	"net/http"

	"github.com/salwynchristopher/portfolio/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize bounds contact form bodies
const DefaultMaxBodySize int64 = 64 * 1024

// BodySizeLimit rejects bodies larger than maxBytes. Declared lengths are
// checked up front; chunked bodies are cut off while being read, which
// surfaces as a decode error in the handler.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				common.NewErrorResponse("Request body too large"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
