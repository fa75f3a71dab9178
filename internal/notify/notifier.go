// Package notify delivers the composed report to the configured
// notification channel. Delivery is best-effort: callers log failures
// and move on.
package notify

import (
	"context"

	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/httputil"
	"github.com/tranvu/roitrack/pkg/logger"
)

// Notifier sends a text message to the notification channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Noop is used when no notification credentials are configured; the
// tracker still runs and logs its result.
type Noop struct {
	logger *logger.Logger
}

// NewNoop creates a no-op notifier.
func NewNoop(log *logger.Logger) *Noop {
	return &Noop{logger: log}
}

// Send logs the message instead of delivering it.
func (n *Noop) Send(_ context.Context, text string) error {
	n.logger.WithField("chars", len(text)).Debug("Notifier disabled, dropping message")
	return nil
}

// FromConfig picks the Telegram notifier when credentials are present,
// and degrades to Noop otherwise.
func FromConfig(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) Notifier {
	if !cfg.Telegram.Enabled() {
		log.Warn("Missing TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID, notifications disabled")
		return NewNoop(log)
	}
	return NewTelegram(cfg.Telegram, cfg.Report.Header, httpClient, log)
}
