package commands

import (
	"context"
	"fmt"
	"strings"

	"zonebot/core/domains"
)

func normalizeDomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func zoneNotFound(domain string) Reply {
	return Reply{Text: fmt.Sprintf("❌ Zone %s not found. Run /register %s first.", domain, domain)}
}

// Status reports a zone's activation status, including the nameservers to
// set at the registrar while the zone is still pending.
type Status struct {
	CF Provider
}

func (s *Status) Name() string        { return "status" }
func (s *Status) Description() string { return "Show zone status" }
func (s *Status) Protected() bool     { return true }
func (s *Status) NeedsArgs() bool     { return true }

func (s *Status) Execute(ctx context.Context, req Request) (Reply, error) {
	domain := normalizeDomain(req.Args)
	if !domains.Valid(domain) {
		return Reply{Text: "❌ Invalid domain. Example: /status example.com"}, nil
	}

	info, err := s.CF.GetZoneStatus(ctx, domain)
	if err != nil {
		return Reply{}, err
	}
	if info == nil {
		return zoneNotFound(domain), nil
	}

	extra := ""
	if info.Status == "pending" {
		ns, err := s.CF.GetZoneNS(ctx, info.ID)
		if err != nil {
			return Reply{}, err
		}
		extra = fmt.Sprintf("\nNS (set these at your registrar):\n```\n%s\n```", strings.Join(ns, "\n"))
	}

	text := fmt.Sprintf("ℹ️ Status of *%s*: *%s*%s", domain, info.Status, extra)
	return Reply{Text: text, Markdown: true}, nil
}

// Register creates a zone, or finds the existing one, and reports its
// nameservers. Looking up before creating keeps the command idempotent.
type Register struct {
	CF Provider
}

func (r *Register) Name() string        { return "register" }
func (r *Register) Description() string { return "Register a domain" }
func (r *Register) Protected() bool     { return true }
func (r *Register) NeedsArgs() bool     { return true }

func (r *Register) Execute(ctx context.Context, req Request) (Reply, error) {
	domain := normalizeDomain(req.Args)
	if !domains.Valid(domain) {
		return Reply{Text: "❌ Invalid domain. Example: /register example.com"}, nil
	}

	zone, err := r.CF.GetZoneByName(ctx, domain)
	if err != nil {
		return Reply{}, err
	}
	if zone == nil {
		zone, err = r.CF.CreateZone(ctx, domain)
		if err != nil {
			return Reply{}, err
		}
	}

	ns, err := r.CF.GetZoneNS(ctx, zone.ID)
	if err != nil {
		return Reply{}, err
	}

	status := zone.Status
	if status == "" {
		status = "pending"
	}
	text := fmt.Sprintf("✅ Domain *%s* added/found.\nNameservers:\n```\n%s\n```\nStatus: %s",
		domain, strings.Join(ns, "\n"), status)
	return Reply{Text: text, Markdown: true}, nil
}
