package contact

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies why a submission was not delivered
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimited
	KindServiceUnavailable
	KindInvalidInput
	KindSendFailed
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "RateLimited"
	case KindServiceUnavailable:
		return "ServiceUnavailable"
	case KindInvalidInput:
		return "InvalidInput"
	case KindSendFailed:
		return "SendFailed"
	default:
		return "Unknown"
	}
}

// HTTPStatus maps the kind onto the status code returned to the form
func (k Kind) HTTPStatus() int {
	switch k {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Messages shown to the person submitting the form
const (
	MsgSent            = "Email sent successfully"
	MsgRateLimited     = "Too many requests. Please try again later."
	MsgNotConfigured   = "Email service is not properly configured"
	MsgInvalidBody     = "Invalid request body"
	MsgFieldsRequired  = "All fields are required"
	MsgInvalidEmail    = "Invalid email address"
	MsgMessageTooShort = "Message must be at least 10 characters"
	MsgSendFailed      = "Failed to send email. Please try again later."
)

// Error is returned by the Service for every rejected or failed
// submission. Message is safe to show the caller; Err is for logs only.
type Error struct {
	Kind       Kind
	Message    string
	Err        error
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status for the error
func (e *Error) Status() int {
	return e.Kind.HTTPStatus()
}

// KindOf returns the Kind carried by err, or KindUnknown
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

func invalidInput(msg string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, Err: err}
}
