package telegram_notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"zonebot/core"
)

// Notifier sends notifications via the Telegram Bot API. The target chat
// comes from each notification; defaultChatID is used when a notification
// carries none.
type Notifier struct {
	botToken      string
	defaultChatID string
	client        *http.Client
	baseURL       string
}

// New creates a Telegram notifier with the given bot token and fallback
// chat ID.
func New(botToken, defaultChatID string) *Notifier {
	return &Notifier{
		botToken:      botToken,
		defaultChatID: defaultChatID,
		client:        &http.Client{Timeout: 10 * time.Second},
		baseURL:       "https://api.telegram.org",
	}
}

func (n *Notifier) Name() string { return "telegram" }

func (n *Notifier) Send(ctx context.Context, notif core.Notification) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)

	chatID := notif.ChatID
	if chatID == "" {
		chatID = n.defaultChatID
	}
	values := url.Values{
		"chat_id": {chatID},
		"text":    {notif.Text},
	}
	if notif.Markdown {
		values.Set("parse_mode", "Markdown")
	}

	resp, err := n.client.PostForm(endpoint, values)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			OK          bool   `json:"ok"`
			Description string `json:"description"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("telegram API error %d: %s", resp.StatusCode, body.Description)
	}

	return nil
}

// WithBaseURL sets a custom base URL (for testing).
func (n *Notifier) WithBaseURL(baseURL string) *Notifier {
	n.baseURL = baseURL
	return n
}
