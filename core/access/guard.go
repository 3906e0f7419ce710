// Package access decides whether an inbound chat message may invoke
// protected commands.
package access

import (
	"context"
	"strconv"
	"strings"
)

// Whitelist looks up persisted authorized users. Implementations must
// report false when both criteria are absent.
type Whitelist interface {
	Exists(ctx context.Context, username string, telegramID int64) (bool, error)
}

// Guard applies the two-tier authorization policy: a single allowed
// group/supergroup chat, plus a per-user whitelist for private chats.
type Guard struct {
	allowedChat string
	whitelist   Whitelist
}

// New creates a Guard. allowedChatID is the raw configured value; it is
// normalized once here (leading BOM, surrounding whitespace, and carriage
// returns stripped). An empty value means no group chat is ever authorized.
func New(allowedChatID string, wl Whitelist) *Guard {
	return &Guard{
		allowedChat: NormalizeChatID(allowedChatID),
		whitelist:   wl,
	}
}

// NormalizeChatID cleans a configured chat identifier. Config values pasted
// from chat clients or Windows editors tend to carry a BOM or stray CRs.
func NormalizeChatID(v string) string {
	v = strings.TrimPrefix(v, "\uFEFF")
	v = strings.ReplaceAll(v, "\r", "")
	return strings.TrimSpace(v)
}

// ChatAllowed reports whether the chat itself may issue commands. Private
// chats always pass; the user-level check happens separately. Any other
// chat passes only on exact equality with the configured allowed chat id.
func (g *Guard) ChatAllowed(chatType string, chatID int64) bool {
	if chatType == "private" {
		return true
	}
	if g.allowedChat == "" {
		return false
	}
	return strconv.FormatInt(chatID, 10) == g.allowedChat
}

// UserWhitelisted reports whether the sender may use the bot. Membership in
// an already-allowed group or supergroup is sufficient. Private senders are
// looked up by lowercased username or numeric id; a sender carrying neither
// is rejected without consulting the store.
func (g *Guard) UserWhitelisted(ctx context.Context, chatType, username string, userID int64) (bool, error) {
	if chatType == "group" || chatType == "supergroup" {
		return true, nil
	}
	username = strings.ToLower(username)
	if username == "" && userID == 0 {
		return false, nil
	}
	return g.whitelist.Exists(ctx, username, userID)
}
