// Package notify delivers outbound notifications for monitoring events:
// expiring assets and device reachability transitions. Two channels are
// supported, email (SMTP) for the asset's responsible party and Telegram for
// operations-wide broadcasts. Delivery failures are logged per channel and
// never propagated to the caller so a broken mail server cannot stall a
// monitoring run.
package notify

import (
	"context"
	"log/slog"

	"github.com/asset-inventory/asset-inventory/internal/config"
	"github.com/asset-inventory/asset-inventory/internal/telemetry"
)

// Dispatcher routes notifications to whichever channels are configured.
// Both operations are best-effort no-ops when the channel is unconfigured.
type Dispatcher struct {
	enabled  bool
	email    *EmailSender
	telegram *TelegramSender
}

// NewDispatcher builds a dispatcher from the notification config. Channels
// with incomplete configuration are skipped, so an empty config yields a
// dispatcher that silently drops every message.
func NewDispatcher(cfg *config.NotificationsConfig) *Dispatcher {
	d := &Dispatcher{enabled: cfg.Enabled}
	if !cfg.Enabled {
		return d
	}

	if cfg.SMTP.Host != "" {
		d.email = NewEmailSender(&cfg.SMTP)
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		d.telegram = NewTelegramSender(&cfg.Telegram)
	}
	return d
}

// NewDispatcherWithSenders builds a dispatcher around explicit senders.
// Either sender may be nil to leave that channel unconfigured.
func NewDispatcherWithSenders(email *EmailSender, telegram *TelegramSender) *Dispatcher {
	return &Dispatcher{enabled: true, email: email, telegram: telegram}
}

// SendEmail delivers one message to a single recipient. No-op when the email
// channel is unconfigured or the recipient is empty.
func (d *Dispatcher) SendEmail(ctx context.Context, to, subject, body string) {
	if !d.enabled || d.email == nil || to == "" {
		return
	}
	if err := d.email.Send(ctx, to, subject, body); err != nil {
		slog.Error("notification delivery failed",
			"channel", "email",
			"subject", subject,
			"error", err)
		return
	}
	telemetry.NotificationsSentTotal.WithLabelValues("email").Inc()
}

// SendBroadcast posts the message to the operations chat. No-op when the
// Telegram channel is unconfigured.
func (d *Dispatcher) SendBroadcast(ctx context.Context, body string) {
	if !d.enabled || d.telegram == nil {
		return
	}
	if err := d.telegram.Send(ctx, body); err != nil {
		slog.Error("notification delivery failed",
			"channel", "telegram",
			"error", err)
		return
	}
	telemetry.NotificationsSentTotal.WithLabelValues("telegram").Inc()
}
