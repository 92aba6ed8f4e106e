// Package notify holds the optional chat notifiers that tell the site owner
// about a new contact submission.
package notify

import (
	"github.com/salwynchristopher/portfolio/internal/config"
	"github.com/salwynchristopher/portfolio/internal/contact"
)

// FromConfig returns a notifier for every channel that has credentials
func FromConfig(cfg config.NotifyConfig) []contact.Notifier {
	var notifiers []contact.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifiers = append(notifiers, NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID))
	}
	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, NewSlack(cfg.SlackWebhookURL))
	}
	return notifiers
}
