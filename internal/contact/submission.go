package contact

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxFieldLength caps every field, in characters, after trimming
	MaxFieldLength = 1000
	// MinMessageLength is the shortest accepted message, in characters
	MinMessageLength = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is one contact form post
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contact_email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=10"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return v
}

// ValidEmail reports whether s has a local@domain.tld shape and is a bare
// RFC 5322 address, so it can be used as a mail recipient as-is.
func ValidEmail(s string) bool {
	if !emailPattern.MatchString(s) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// Validate checks the trimmed fields. Presence is checked before the email
// shape, and the email shape before the message length, so the caller always
// sees the first constraint that failed.
func (s Submission) Validate() error {
	err := validate.Struct(s.trimmed())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidInput(MsgInvalidBody, err)
	}

	var badEmail, shortMessage bool
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required":
			return invalidInput(MsgFieldsRequired, err)
		case fe.Field() == "Email":
			badEmail = true
		case fe.Field() == "Message":
			shortMessage = true
		}
	}

	switch {
	case badEmail:
		return invalidInput(MsgInvalidEmail, err)
	case shortMessage:
		return invalidInput(MsgMessageTooShort, err)
	default:
		return invalidInput(MsgInvalidBody, err)
	}
}

// Sanitize trims every field and caps it at MaxFieldLength characters
func (s Submission) Sanitize() Submission {
	return Submission{
		Name:    truncate(strings.TrimSpace(s.Name), MaxFieldLength),
		Email:   truncate(strings.TrimSpace(s.Email), MaxFieldLength),
		Subject: truncate(strings.TrimSpace(s.Subject), MaxFieldLength),
		Message: truncate(strings.TrimSpace(s.Message), MaxFieldLength),
	}
}

func (s Submission) trimmed() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

func truncate(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
