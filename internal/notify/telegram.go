package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"
)

const deliveryTimeout = 10 * time.Second

// Telegram pushes messages to an operator chat through the Bot API.
// An unconfigured token or chat id downgrades every send to a logged no-op.
type Telegram struct {
	token  string
	chatID string
	client *req.Client
	log    zerolog.Logger
}

func NewTelegram(token, chatID string, log zerolog.Logger) *Telegram {
	client := req.C().
		SetBaseURL("https://api.telegram.org").
		SetTimeout(deliveryTimeout)
	return &Telegram{token: token, chatID: chatID, client: client, log: log}
}

// SetBaseURL overrides the Bot API endpoint. Used by tests.
func (t *Telegram) SetBaseURL(url string) {
	t.client.SetBaseURL(url)
}

// Notify implements Notifier.
func (t *Telegram) Notify(ctx context.Context, text string) bool {
	if t.token == "" || t.chatID == "" {
		t.log.Warn().Msg("telegram notifications not configured (TELEGRAM_BOT_TOKEN / TELEGRAM_ADMIN_CHAT_ID)")
		return false
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(map[string]string{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", t.token))
	if err != nil {
		t.log.Error().Err(err).Msg("telegram send failed")
		return false
	}
	if resp.IsErrorState() {
		t.log.Error().Int("status", resp.StatusCode).Msg("telegram send rejected")
		return false
	}

	t.log.Info().Str("message", preview(text, 50)).Msg("telegram notification sent")
	return true
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
