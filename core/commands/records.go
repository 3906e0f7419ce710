package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"zonebot/adapters/cloudflare"
	"zonebot/core/args"
)

// List prints all DNS records of a zone.
type List struct {
	CF Provider
}

func (l *List) Name() string        { return "dns_list" }
func (l *List) Description() string { return "List DNS records" }
func (l *List) Protected() bool     { return true }
func (l *List) NeedsArgs() bool     { return true }

func (l *List) Execute(ctx context.Context, req Request) (Reply, error) {
	domain := normalizeDomain(req.Args)
	if domain == "" {
		return Reply{Text: "Example: /dns_list example.com"}, nil
	}

	zone, err := l.CF.GetZoneByName(ctx, domain)
	if err != nil {
		return Reply{}, err
	}
	if zone == nil {
		return zoneNotFound(domain), nil
	}

	records, err := l.CF.ListRecords(ctx, zone.ID)
	if err != nil {
		return Reply{}, err
	}
	if len(records) == 0 {
		return Reply{Text: "Empty."}, nil
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		proxied := ""
		if r.Proxied != nil && *r.Proxied {
			proxied = " (proxied)"
		}
		lines = append(lines, fmt.Sprintf("%s — %s %s → %s%s", r.ID, r.Type, r.Name, r.Content, proxied))
	}
	return Reply{Text: "```\n" + strings.Join(lines, "\n") + "\n```", Markdown: true}, nil
}

// Add creates a DNS record from key=value arguments. A name of "@" expands
// to the bare domain.
type Add struct {
	CF Provider
}

const addUsage = "Example:\n/dns_add domain=ex.com type=A name=@ content=1.2.3.4 ttl=300 proxied=true"

func (a *Add) Name() string        { return "dns_add" }
func (a *Add) Description() string { return "Add a DNS record" }
func (a *Add) Protected() bool     { return true }
func (a *Add) NeedsArgs() bool     { return true }

func (a *Add) Execute(ctx context.Context, req Request) (Reply, error) {
	kv := args.Parse(req.Args)
	recType, name, content := kv["type"], kv["name"], kv["content"]
	domain := normalizeDomain(kv["domain"])
	if domain == "" || recType == "" || name == "" || content == "" {
		return Reply{Text: addUsage}, nil
	}

	zone, err := a.CF.GetZoneByName(ctx, domain)
	if err != nil {
		return Reply{}, err
	}
	if zone == nil {
		return zoneNotFound(domain), nil
	}

	if name == "@" {
		name = domain
	}
	rec := cloudflare.Record{Type: recType, Name: name, Content: content}
	if v := kv["ttl"]; v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return Reply{Text: "❌ ttl must be a number.\n" + addUsage}, nil
		}
		rec.TTL = &ttl
	}
	if v, ok := kv["proxied"]; ok {
		proxied := v == "true"
		rec.Proxied = &proxied
	}
	if v := kv["priority"]; v != "" {
		prio, err := strconv.Atoi(v)
		if err != nil {
			return Reply{Text: "❌ priority must be a number.\n" + addUsage}, nil
		}
		rec.Priority = &prio
	}

	created, err := a.CF.CreateRecord(ctx, zone.ID, rec)
	if err != nil {
		return Reply{}, err
	}

	text := fmt.Sprintf("✅ DNS record created: `%s`\n%s %s → %s",
		created.ID, created.Type, created.Name, created.Content)
	return Reply{Text: text, Markdown: true}, nil
}

// Update applies a partial patch to an existing record.
type Update struct {
	CF Provider
}

const updateUsage = "Example: /dns_update domain=ex.com id=<recordId> content=1.2.3.5 ttl=120 proxied=false"

func (u *Update) Name() string        { return "dns_update" }
func (u *Update) Description() string { return "Update a DNS record" }
func (u *Update) Protected() bool     { return true }
func (u *Update) NeedsArgs() bool     { return true }

func (u *Update) Execute(ctx context.Context, req Request) (Reply, error) {
	kv := args.Parse(req.Args)
	domain, id := normalizeDomain(kv["domain"]), kv["id"]
	if domain == "" || id == "" {
		return Reply{Text: updateUsage}, nil
	}

	zone, err := u.CF.GetZoneByName(ctx, domain)
	if err != nil {
		return Reply{}, err
	}
	if zone == nil {
		return zoneNotFound(domain), nil
	}

	var patch cloudflare.RecordPatch
	if v := kv["content"]; v != "" {
		patch.Content = &v
	}
	if v := kv["ttl"]; v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return Reply{Text: "❌ ttl must be a number.\n" + updateUsage}, nil
		}
		patch.TTL = &ttl
	}
	if v, ok := kv["proxied"]; ok {
		proxied := v == "true"
		patch.Proxied = &proxied
	}
	if patch.Empty() {
		return Reply{Text: "Nothing to update."}, nil
	}

	updated, err := u.CF.UpdateRecord(ctx, zone.ID, id, patch)
	if err != nil {
		return Reply{}, err
	}

	text := fmt.Sprintf("✅ Updated %s: %s %s → %s",
		updated.ID, updated.Type, updated.Name, updated.Content)
	return Reply{Text: text}, nil
}

// Delete removes a record from a zone.
type Delete struct {
	CF Provider
}

func (d *Delete) Name() string        { return "dns_delete" }
func (d *Delete) Description() string { return "Delete a DNS record" }
func (d *Delete) Protected() bool     { return true }
func (d *Delete) NeedsArgs() bool     { return true }

func (d *Delete) Execute(ctx context.Context, req Request) (Reply, error) {
	kv := args.Parse(req.Args)
	domain, id := normalizeDomain(kv["domain"]), kv["id"]
	if domain == "" || id == "" {
		return Reply{Text: "Example: /dns_delete domain=ex.com id=<recordId>"}, nil
	}

	zone, err := d.CF.GetZoneByName(ctx, domain)
	if err != nil {
		return Reply{}, err
	}
	if zone == nil {
		return zoneNotFound(domain), nil
	}

	if err := d.CF.DeleteRecord(ctx, zone.ID, id); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("🗑️ Deleted record %s", id)}, nil
}
