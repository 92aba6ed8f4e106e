// Package contact handles contact form submissions: admission under the
// per-client rate limit, validation, sanitization and delivery of the owner
// notification and the acknowledgment email.
package contact

import (
	"context"
	"strings"
	"time"

	"github.com/salwynchristopher/portfolio/internal/config"
	"github.com/salwynchristopher/portfolio/internal/logging"
	"github.com/salwynchristopher/portfolio/internal/mail"
	"github.com/salwynchristopher/portfolio/internal/ratelimit"
)

const defaultSendTimeout = 10 * time.Second

// Limiter admits or rejects a client key
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// Notifier is an optional out-of-band alert for the owner, sent after both
// emails went out. Failures are logged and otherwise ignored.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, s Submission) error
}

// Recorder receives outcome metrics
type Recorder interface {
	ObserveSubmission(outcome string)
	ObserveSend(kind string, d time.Duration, err error)
}

// Outcome labels passed to Recorder.ObserveSubmission
const (
	OutcomeSent          = "sent"
	OutcomeRateLimited   = "rate_limited"
	OutcomeNotConfigured = "not_configured"
	OutcomeInvalid       = "invalid"
	OutcomeSendFailed    = "send_failed"
)

// Dependencies wires a Service
type Dependencies struct {
	Limiter   Limiter
	Transport mail.Transport
	Mail      config.MailConfig
	Notifiers []Notifier
	Recorder  Recorder
	Logger    *logging.Logger
}

// Service runs the submission pipeline
type Service struct {
	limiter   Limiter
	transport mail.Transport
	mailCfg   config.MailConfig
	composer  Composer
	notifiers []Notifier
	recorder  Recorder
	logger    *logging.Logger
	timeout   time.Duration
}

// NewService creates a contact service
func NewService(deps Dependencies) *Service {
	s := &Service{
		limiter:   deps.Limiter,
		transport: deps.Transport,
		mailCfg:   deps.Mail,
		composer:  Composer{Sender: deps.Mail.Sender, Owner: deps.Mail.OwnerName},
		notifiers: deps.Notifiers,
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		timeout:   deps.Mail.Timeout,
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.timeout <= 0 {
		s.timeout = defaultSendTimeout
	}
	return s
}

// HandleSubmit runs the whole pipeline for one request. decode fills the
// submission from the request body; it is only called once the client has
// been admitted and the mail service is known to be configured. The returned
// decision is the limiter's view of the client and is zero when the store
// failed. Every failure is a *Error.
func (s *Service) HandleSubmit(ctx context.Context, clientKey string, decode func(*Submission) error) (ratelimit.Decision, error) {
	decision, err := s.Admit(ctx, clientKey)
	if err != nil {
		return decision, err
	}

	if err := s.CheckConfig(); err != nil {
		return decision, err
	}

	var sub Submission
	if err := decode(&sub); err != nil {
		s.recorder.ObserveSubmission(OutcomeInvalid)
		return decision, invalidInput(MsgInvalidBody, err)
	}

	return decision, s.Submit(ctx, sub)
}

// Admit records a hit for clientKey. If the limiter's store fails the
// client is admitted.
func (s *Service) Admit(ctx context.Context, clientKey string) (ratelimit.Decision, error) {
	decision, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		s.logger.Error("Rate limit check failed for %s, admitting: %v", clientKey, err)
		return ratelimit.Decision{Allowed: true}, nil
	}

	if !decision.Allowed {
		s.logger.Warn("Rate limit exceeded for %s, retry in %s", clientKey, decision.RetryAfter)
		s.recorder.ObserveSubmission(OutcomeRateLimited)
		return decision, &Error{
			Kind:       KindRateLimited,
			Message:    MsgRateLimited,
			RetryAfter: decision.RetryAfter,
		}
	}

	return decision, nil
}

// CheckConfig fails when a required mail setting is missing. The missing
// keys are logged, never returned.
func (s *Service) CheckConfig() error {
	missing := s.mailCfg.MissingKeys()
	if len(missing) == 0 {
		return nil
	}

	s.logger.Error("Missing email configuration: %s", strings.Join(missing, ", "))
	s.recorder.ObserveSubmission(OutcomeNotConfigured)
	return &Error{Kind: KindServiceUnavailable, Message: MsgNotConfigured}
}

// Submit validates, sanitizes and delivers an admitted submission
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	if err := sub.Validate(); err != nil {
		s.recorder.ObserveSubmission(OutcomeInvalid)
		return err
	}

	clean := sub.Sanitize()

	admin, err := s.composer.Admin(clean)
	if err != nil {
		return s.sendFailed(err)
	}
	ack, err := s.composer.Acknowledgment(clean)
	if err != nil {
		return s.sendFailed(err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.send(sendCtx, "admin", admin); err != nil {
		return s.sendFailed(err)
	}
	if err := s.send(sendCtx, "acknowledgment", ack); err != nil {
		return s.sendFailed(err)
	}

	s.logger.Info("Contact submission from %s delivered", clean.Email)
	s.recorder.ObserveSubmission(OutcomeSent)

	s.notify(ctx, clean)
	return nil
}

func (s *Service) send(ctx context.Context, kind string, msg mail.Message) error {
	start := time.Now()
	err := s.transport.Send(ctx, msg)
	s.recorder.ObserveSend(kind, time.Since(start), err)
	if err != nil {
		return logging.WrapError(err, "sending "+kind+" email")
	}
	return nil
}

func (s *Service) sendFailed(err error) error {
	s.logger.Error("Email send error: %v", err)
	s.recorder.ObserveSubmission(OutcomeSendFailed)
	return &Error{Kind: KindSendFailed, Message: MsgSendFailed, Err: err}
}

func (s *Service) notify(ctx context.Context, sub Submission) {
	for _, n := range s.notifiers {
		nctx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := n.Notify(nctx, sub); err != nil {
			s.logger.Warn("%s notification failed: %v", n.Name(), err)
		}
		cancel()
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveSubmission(string) {}
func (nopRecorder) ObserveSend(string, time.Duration, error) {}
