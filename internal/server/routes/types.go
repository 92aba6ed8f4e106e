package routes

import (
	"net/http"

	"github.com/salwynchristopher/portfolio/internal/api/handlers"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
	Metrics http.Handler
}
