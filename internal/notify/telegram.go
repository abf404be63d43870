// telegram.go implements the Telegram notification channel via the Bot API
// sendMessage method. All notifications go to a single configured chat,
// typically an operations group.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asset-inventory/asset-inventory/internal/config"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramSender posts messages to a Telegram chat through a bot.
type TelegramSender struct {
	cfg     *config.TelegramConfig
	client  *http.Client
	baseURL string
}

func NewTelegramSender(cfg *config.TelegramConfig) *TelegramSender {
	return &TelegramSender{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: telegramAPIBase,
	}
}

// Send posts the message text to the configured chat.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": s.cfg.ChatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}
