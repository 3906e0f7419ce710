// Package commands defines the bot's command set and the registry the
// dispatcher routes through.
package commands

import (
	"context"

	"zonebot/adapters/cloudflare"
)

// Request carries the context of a single command invocation.
type Request struct {
	ChatID    int64
	ChatType  string
	ChatTitle string
	UserID    int64
	Username  string
	Args      string
}

// Reply is the single chat message a command produces. An empty Text means
// the command chose not to answer.
type Reply struct {
	Text     string
	Markdown bool
}

// Command is an executable bot command.
type Command interface {
	Name() string
	Description() string
	// Protected commands pass through the access guard before execution.
	Protected() bool
	// NeedsArgs commands do not match at all when invoked without
	// argument text; the dispatcher drops them silently.
	NeedsArgs() bool
	Execute(ctx context.Context, req Request) (Reply, error)
}

// Provider performs zone and record operations at the DNS provider.
// GetZoneByName and GetZoneStatus return (nil, nil) for unknown zones.
type Provider interface {
	CreateZone(ctx context.Context, name string) (*cloudflare.Zone, error)
	GetZoneByName(ctx context.Context, name string) (*cloudflare.Zone, error)
	GetZoneNS(ctx context.Context, zoneID string) ([]string, error)
	GetZoneStatus(ctx context.Context, name string) (*cloudflare.ZoneStatus, error)
	ListRecords(ctx context.Context, zoneID string) ([]cloudflare.Record, error)
	CreateRecord(ctx context.Context, zoneID string, rec cloudflare.Record) (*cloudflare.Record, error)
	UpdateRecord(ctx context.Context, zoneID, recordID string, patch cloudflare.RecordPatch) (*cloudflare.Record, error)
	DeleteRecord(ctx context.Context, zoneID, recordID string) error
}
