package constants

// Context keys set by middleware
const (
	ContextKeyRequestID = "RequestID"
)

// Header names
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderRetryAfter = "Retry-After"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)
