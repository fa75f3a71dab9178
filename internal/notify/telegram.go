package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/httputil"
	"github.com/tranvu/roitrack/pkg/logger"
)

const defaultTelegramAPI = "https://api.telegram.org"

// sendTimeout bounds one sendMessage call.
const sendTimeout = 20 * time.Second

// Telegram delivers reports via the Bot API's sendMessage.
type Telegram struct {
	cfg        config.TelegramConfig
	header     string
	baseURL    string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewTelegram creates a Telegram notifier. The header is prepended to
// every message.
func NewTelegram(cfg config.TelegramConfig, header string, httpClient *httputil.Client, log *logger.Logger) *Telegram {
	return &Telegram{
		cfg:        cfg,
		header:     header,
		baseURL:    defaultTelegramAPI,
		httpClient: httpClient,
		logger:     log,
	}
}

// WithBaseURL overrides the Bot API endpoint. Used in tests.
func (t *Telegram) WithBaseURL(url string) *Telegram {
	t.baseURL = url
	return t
}

// Send posts the message to the configured chat. Failures are returned
// for logging but must never abort the caller's run.
func (t *Telegram) Send(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	full := text
	if t.header != "" {
		full = t.header + "\n" + text
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.cfg.BotToken)
	payload := map[string]string{
		"chat_id": t.cfg.ChatID,
		"text":    full,
	}

	resp, err := t.httpClient.PostJSON(ctx, url, payload)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram send failed: %d %s", resp.StatusCode, string(body))
	}

	t.logger.WithField("chars", len(full)).Debug("Telegram message sent")
	return nil
}
