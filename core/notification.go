package core

import "time"

// Notification represents an outbound chat message to be delivered.
type Notification struct {
	ID        string    `json:"id,omitempty"`
	ChatID    string    `json:"chat_id"`
	Text      string    `json:"text"`
	Markdown  bool      `json:"markdown,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
