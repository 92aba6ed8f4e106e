package routes

import (
	"github.com/salwynchristopher/portfolio/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures contact form routes. The per-client limit is
// applied by the contact service, not by route middleware.
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler) {
	v1 := router.Group("/api/v1")
	v1.POST("/contact", contact.Submit)

	// Path used by earlier versions of the site
	router.POST("/api/send-email", contact.Submit)
}
