package core

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"zonebot/core/access"
	"zonebot/core/commands"
)

const cmdTimeout = 30 * time.Second

const (
	chatDeniedText = "⛔ Access from this chat is not allowed."
	userDeniedText = "⛔ You are not authorized to use this bot. Contact the administrator."
)

// Dispatcher routes inbound messages to commands. It is the single place
// the access guard is applied: a protected command never executes without
// passing the chat check and, for private chats, the whitelist check.
type Dispatcher struct {
	guard    *access.Guard
	registry *commands.Registry
	notifier Notifier
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(guard *access.Guard, registry *commands.Registry, notifier Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		guard:    guard,
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// Handle processes one inbound message: match, authorize, execute, respond.
// Unknown commands and argument-taking commands invoked without arguments
// fall through without any response.
func (d *Dispatcher) Handle(msg InboundMessage) {
	name, argText := parseCommand(msg.Text)
	if name == "" {
		return
	}

	cmd := d.registry.Get(name)
	if cmd == nil {
		d.logger.Debug("unknown command ignored", "command", name, "chat_id", msg.ChatID)
		return
	}
	if cmd.NeedsArgs() && argText == "" {
		d.logger.Debug("command without arguments ignored", "command", name, "chat_id", msg.ChatID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	if cmd.Protected() {
		if !d.guard.ChatAllowed(msg.ChatType, msg.ChatID) {
			d.logger.Debug("chat rejected", "chat_id", msg.ChatID, "chat_type", msg.ChatType)
			d.respond(msg.ChatID, commands.Reply{Text: chatDeniedText})
			return
		}
		if msg.ChatType == ChatPrivate {
			ok, err := d.guard.UserWhitelisted(ctx, msg.ChatType, msg.Username, msg.UserID)
			if err != nil {
				// Fail closed on store errors.
				d.logger.Error("whitelist lookup failed", "user_id", msg.UserID, "error", err)
				ok = false
			}
			if !ok {
				d.logger.Debug("user rejected", "user_id", msg.UserID, "username", msg.Username)
				d.respond(msg.ChatID, commands.Reply{Text: userDeniedText})
				return
			}
		}
	}

	reply, err := cmd.Execute(ctx, commands.Request{
		ChatID:    msg.ChatID,
		ChatType:  msg.ChatType,
		ChatTitle: msg.ChatTitle,
		UserID:    msg.UserID,
		Username:  msg.Username,
		Args:      argText,
	})
	if err != nil {
		d.logger.Error("command failed", "command", name, "error", err)
		d.respond(msg.ChatID, commands.Reply{Text: "❌ " + err.Error()})
		return
	}
	if reply.Text == "" {
		return
	}
	d.respond(msg.ChatID, reply)
}

func (d *Dispatcher) respond(chatID int64, reply commands.Reply) {
	n := Notification{
		ChatID:    strconv.FormatInt(chatID, 10),
		Text:      reply.Text,
		Markdown:  reply.Markdown,
		Source:    "bot",
		CreatedAt: time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.notifier.Send(ctx, n); err != nil {
		d.logger.Error("failed to send response", "chat_id", chatID, "error", err)
	}
}

// parseCommand extracts the command name and argument text from a message.
// It handles "/command", "/command args", and "/command@botname args".
func parseCommand(text string) (cmd, argText string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	text = text[1:] // strip leading "/"
	parts := strings.SplitN(text, " ", 2)
	cmd = parts[0]
	if len(parts) > 1 {
		argText = strings.TrimSpace(parts[1])
	}

	// Strip @botname suffix.
	if at := strings.Index(cmd, "@"); at != -1 {
		cmd = cmd[:at]
	}

	cmd = strings.ToLower(cmd)
	return cmd, argText
}
