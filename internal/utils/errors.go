package utils

import (
	"errors"
	"net/http"

	"github.com/salwynchristopher/portfolio/internal/contact"
	"github.com/salwynchristopher/portfolio/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError writes err as a {success:false} response. A *contact.Error
// decides its own status and caller-visible message; anything else is a
// generic 500. The underlying cause is logged, never returned.
func HandleAPIError(c *gin.Context, logger *logging.Logger, err error) {
	status := http.StatusInternalServerError
	message := contact.MsgSendFailed

	var cerr *contact.Error
	if errors.As(err, &cerr) {
		status = cerr.Status()
		message = cerr.Message
	}

	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		ClientKey(c.Request),
		status,
		message,
		err,
	)

	HandleFailure(c, status, message)
}
