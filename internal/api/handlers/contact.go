package handlers

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/salwynchristopher/portfolio/internal/api/constants"
	"github.com/salwynchristopher/portfolio/internal/contact"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/ratelimit"
	"github.com/salwynchristopher/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// ContactSubmitter runs the submission pipeline
type ContactSubmitter interface {
	HandleSubmit(ctx context.Context, clientKey string, decode func(*contact.Submission) error) (ratelimit.Decision, error)
}

type ContactHandler struct {
	service ContactSubmitter
	logger  *logging.Logger
}

func NewContactHandler(service ContactSubmitter, logger *logging.Logger) *ContactHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ContactHandler{
		service: service,
		logger:  logger,
	}
}

// Submit handles POST /api/v1/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	decision, err := h.service.HandleSubmit(c.Request.Context(), utils.ClientKey(c.Request), func(s *contact.Submission) error {
		return c.ShouldBindJSON(s)
	})
	setRateLimitHeaders(c, decision)

	if err != nil {
		utils.HandleAPIError(c, h.logger, err)
		return
	}

	utils.HandleSuccess(c, contact.MsgSent)
}

func setRateLimitHeaders(c *gin.Context, d ratelimit.Decision) {
	if d.Limit == 0 {
		return
	}

	c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(d.Limit))
	c.Header(constants.HeaderRateLimitRemaining, strconv.Itoa(d.Remaining))
	if !d.ResetAt.IsZero() {
		c.Header(constants.HeaderRateLimitReset, strconv.FormatInt(d.ResetAt.Unix(), 10))
	}
	if !d.Allowed && d.RetryAfter > 0 {
		c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(d.RetryAfter)))
	}
}

// retryAfterSeconds rounds up so clients never retry early
func retryAfterSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
