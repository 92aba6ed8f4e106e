package utils

import (
	"net/http"

	"github.com/salwynchristopher/portfolio/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends a 200 response with a success message
func HandleSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(message))
}

// HandleFailure sends an unsuccessful response with the given status
func HandleFailure(c *gin.Context, status int, message string) {
	c.JSON(status, common.NewErrorResponse(message))
}
