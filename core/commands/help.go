package commands

import "context"

const helpText = `Commands:
• /status example.com — zone status (active/pending), NS servers when pending
• /register example.com — create the zone and return its NS servers
• /dns_list example.com — list DNS records
• /dns_add domain=ex.com type=A name=@ content=1.2.3.4 ttl=300 proxied=true
• /dns_update domain=ex.com id=<recordId> content=1.2.3.5 ttl=120 proxied=false
• /dns_delete domain=ex.com id=<recordId>`

// Help echoes the static command summary. Registered under both /help and
// /start.
type Help struct{}

func (h *Help) Name() string        { return "help" }
func (h *Help) Description() string { return "List available commands" }
func (h *Help) Protected() bool     { return true }
func (h *Help) NeedsArgs() bool     { return false }

func (h *Help) Execute(_ context.Context, _ Request) (Reply, error) {
	return Reply{Text: helpText}, nil
}
