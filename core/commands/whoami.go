package commands

import (
	"context"
	"encoding/json"
	"fmt"
)

// Whoami echoes the raw chat and sender identity. Deliberately unguarded so
// operators can discover the ids they need to configure access.
type Whoami struct{}

func (w *Whoami) Name() string        { return "whoami" }
func (w *Whoami) Description() string { return "Show chat and sender identity" }
func (w *Whoami) Protected() bool     { return false }
func (w *Whoami) NeedsArgs() bool     { return false }

func (w *Whoami) Execute(_ context.Context, req Request) (Reply, error) {
	info := struct {
		ChatID       int64  `json:"chat_id"`
		ChatType     string `json:"chat_type"`
		Title        string `json:"title,omitempty"`
		FromID       int64  `json:"from_id,omitempty"`
		FromUsername string `json:"from_username,omitempty"`
	}{
		ChatID:       req.ChatID,
		ChatType:     req.ChatType,
		Title:        req.ChatTitle,
		FromID:       req.UserID,
		FromUsername: req.Username,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return Reply{}, fmt.Errorf("encode identity: %w", err)
	}
	return Reply{Text: "```\n" + string(data) + "\n```", Markdown: true}, nil
}

// MyID echoes just the sender's Telegram id and username.
type MyID struct{}

func (m *MyID) Name() string        { return "myid" }
func (m *MyID) Description() string { return "Show your Telegram ID" }
func (m *MyID) Protected() bool     { return false }
func (m *MyID) NeedsArgs() bool     { return false }

func (m *MyID) Execute(_ context.Context, req Request) (Reply, error) {
	uname := "(no username)"
	if req.Username != "" {
		uname = "@" + req.Username
	}
	text := fmt.Sprintf("Your Telegram ID: `%d`\nUsername: %s", req.UserID, uname)
	return Reply{Text: text, Markdown: true}, nil
}
