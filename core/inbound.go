package core

import "time"

// Chat types as reported by Telegram.
const (
	ChatPrivate    = "private"
	ChatGroup      = "group"
	ChatSupergroup = "supergroup"
	ChatChannel    = "channel"
)

// InboundMessage represents a message received from Telegram.
type InboundMessage struct {
	UpdateID  int64
	ChatID    int64
	ChatType  string
	ChatTitle string
	UserID    int64
	Username  string
	Text      string
	Timestamp time.Time
}

// MessageHandler processes an inbound message.
type MessageHandler func(msg InboundMessage)
