package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github.com/salwynchristopher/portfolio/internal/contact"
)

// Slack posts a summary of each delivered submission to an incoming webhook
type Slack struct {
	webhookURL string
	client     *http.Client
}

// NewSlack creates a Slack notifier
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Slack) Name() string {
	return "slack"
}

// Notify implements contact.Notifier
func (s *Slack) Notify(ctx context.Context, sub contact.Submission) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("New contact form submission from %s", sub.Name),
		Attachments: []slack.Attachment{{
			Title: sub.Subject,
			Text:  sub.Message,
			Fields: []slack.AttachmentField{
				{Title: "Name", Value: sub.Name, Short: true},
				{Title: "Email", Value: sub.Email, Short: true},
			},
		}},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.client, msg); err != nil {
		return fmt.Errorf("failed to post slack webhook: %w", err)
	}
	return nil
}
