package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/salwynchristopher/portfolio/internal/config"
)

// Transport delivers a message
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNotConfigured is returned by Send when required settings are missing
var ErrNotConfigured = errors.New("smtp transport not configured")

// SMTPTransport delivers messages through an SMTP submission server. Each
// Send opens its own connection. Without SMTP_SECURE the connection is
// upgraded with STARTTLS whenever the server advertises it; the first Send
// checks the EHLO reply and the answer is remembered.
type SMTPTransport struct {
	cfg       config.MailConfig
	tlsConfig *tls.Config
	localName string
	now       func() time.Time

	mu       sync.Mutex
	startTLS *bool
}

// NewSMTPTransport creates a transport for cfg
func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{
		cfg: cfg,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
		localName: "localhost",
		now:       time.Now,
	}
}

// Send implements Transport. The context deadline bounds the whole SMTP
// conversation.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (err error) {
	ctx, span := otel.Tracer("portfolio/mail").Start(ctx, "smtp.send")
	span.SetAttributes(attribute.String("smtp.server", t.cfg.Addr()))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "send failed")
		}
		span.End()
	}()

	return t.send(ctx, msg)
}

func (t *SMTPTransport) send(ctx context.Context, msg Message) error {
	if t.cfg.Host == "" || t.cfg.Port == "" {
		return ErrNotConfigured
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	from, err := envelopeAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	to, err := envelopeAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}

	body, err := msg.Bytes(t.now())
	if err != nil {
		return err
	}

	c, err := t.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if t.cfg.Username != "" {
		auth := sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.Mail(from, nil); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("RCPT TO rejected: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", err)
	}

	// The message is accepted at this point; a failed QUIT changes nothing
	_ = c.Quit()
	return nil
}

// client is an SMTP client whose connection is closed when the send
// context ends
type client struct {
	*smtp.Client
	release func() bool
}

func (c *client) Close() error {
	c.release()
	return c.Client.Close()
}

// open returns a greeted client, on a STARTTLS-upgraded connection when the
// server supports it.
func (t *SMTPTransport) open(ctx context.Context) (*client, error) {
	if t.cfg.Secure {
		return t.connect(ctx, false)
	}

	if supported, known := t.startTLSSupport(); known {
		return t.connect(ctx, supported)
	}

	c, err := t.connect(ctx, false)
	if err != nil {
		return nil, err
	}
	supported, _ := c.Extension("STARTTLS")
	t.setStartTLSSupport(supported)
	if !supported {
		return c, nil
	}

	_ = c.Quit()
	_ = c.Close()
	return t.connect(ctx, true)
}

func (t *SMTPTransport) connect(ctx context.Context, startTLS bool) (*client, error) {
	conn, err := t.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", t.cfg.Addr(), err)
	}

	// Close the connection if the context is cancelled mid-conversation
	release := context.AfterFunc(ctx, func() { _ = conn.Close() })

	var c *smtp.Client
	if startTLS {
		c, err = smtp.NewClientStartTLS(conn, t.tlsConfig)
		if err != nil {
			release()
			_ = conn.Close()
			return nil, fmt.Errorf("STARTTLS failed: %w", err)
		}
	} else {
		c = smtp.NewClient(conn)
		if err := c.Hello(t.localName); err != nil {
			release()
			_ = c.Close()
			return nil, fmt.Errorf("EHLO failed: %w", err)
		}
	}

	if t.cfg.Timeout > 0 {
		c.CommandTimeout = t.cfg.Timeout
		c.SubmissionTimeout = t.cfg.Timeout
	}

	return &client{Client: c, release: release}, nil
}

func (t *SMTPTransport) startTLSSupport() (supported, known bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.startTLS == nil {
		return false, false
	}
	return *t.startTLS, true
}

func (t *SMTPTransport) setStartTLSSupport(supported bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startTLS = &supported
}

func (t *SMTPTransport) dial(ctx context.Context) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: t.cfg.Timeout}
	if t.cfg.Secure {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: t.tlsConfig}
		return tlsDialer.DialContext(ctx, "tcp", t.cfg.Addr())
	}
	return dialer.DialContext(ctx, "tcp", t.cfg.Addr())
}
