package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/salwynchristopher/portfolio/internal/api/constants"
	"github.com/salwynchristopher/portfolio/internal/api/dto/common"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a generic 500 and logs the stack trace
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("[PANIC] %s %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					utils.ClientKey(c.Request),
					c.GetString(constants.ContextKeyRequestID),
					rec,
					debug.Stack(),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					common.NewErrorResponse("Internal server error"))
			}
		}()

		c.Next()
	}
}
