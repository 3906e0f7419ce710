package commands

import (
	"context"
	"strings"
	"testing"

	"zonebot/adapters/cloudflare"
)

// fakeProvider serves zones and records from memory and counts calls.
type fakeProvider struct {
	zones       map[string]*cloudflare.Zone
	ns          []string
	records     map[string][]cloudflare.Record
	created     []cloudflare.Record
	patches     []cloudflare.RecordPatch
	deleted     []string
	createZones int
	updates     int
	err         error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		zones:   make(map[string]*cloudflare.Zone),
		ns:      []string{"ada.ns.cloudflare.com", "bob.ns.cloudflare.com"},
		records: make(map[string][]cloudflare.Record),
	}
}

func (f *fakeProvider) addZone(name, status string) *cloudflare.Zone {
	z := &cloudflare.Zone{ID: "zone-" + name, Name: name, Status: status, NameServers: f.ns}
	f.zones[name] = z
	return z
}

func (f *fakeProvider) CreateZone(_ context.Context, name string) (*cloudflare.Zone, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.createZones++
	return f.addZone(name, "pending"), nil
}

func (f *fakeProvider) GetZoneByName(_ context.Context, name string) (*cloudflare.Zone, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.zones[name], nil
}

func (f *fakeProvider) GetZoneNS(_ context.Context, _ string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ns, nil
}

func (f *fakeProvider) GetZoneStatus(_ context.Context, name string) (*cloudflare.ZoneStatus, error) {
	zone, err := f.GetZoneByName(context.Background(), name)
	if err != nil || zone == nil {
		return nil, err
	}
	return &cloudflare.ZoneStatus{ID: zone.ID, Status: zone.Status}, nil
}

func (f *fakeProvider) ListRecords(_ context.Context, zoneID string) ([]cloudflare.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[zoneID], nil
}

func (f *fakeProvider) CreateRecord(_ context.Context, zoneID string, rec cloudflare.Record) (*cloudflare.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec.ID = "rec-1"
	f.created = append(f.created, rec)
	f.records[zoneID] = append(f.records[zoneID], rec)
	return &rec, nil
}

func (f *fakeProvider) UpdateRecord(_ context.Context, _, recordID string, patch cloudflare.RecordPatch) (*cloudflare.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updates++
	f.patches = append(f.patches, patch)
	rec := cloudflare.Record{ID: recordID, Type: "A", Name: "ex.com", Content: "1.2.3.5"}
	if patch.Content != nil {
		rec.Content = *patch.Content
	}
	return &rec, nil
}

func (f *fakeProvider) DeleteRecord(_ context.Context, _, recordID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, recordID)
	return nil
}

func run(t *testing.T, cmd Command, argText string) Reply {
	t.Helper()
	reply, err := cmd.Execute(context.Background(), Request{Args: argText})
	if err != nil {
		t.Fatalf("%s failed: %v", cmd.Name(), err)
	}
	return reply
}

// --- register / status ---

func TestRegisterCreatesZoneOnce(t *testing.T) {
	cf := newFakeProvider()
	cmd := &Register{CF: cf}

	first := run(t, cmd, "Example.COM")
	second := run(t, cmd, "example.com")

	if cf.createZones != 1 {
		t.Errorf("created %d zones, want 1 (second register must find the existing zone)", cf.createZones)
	}
	for _, reply := range []Reply{first, second} {
		if !strings.Contains(reply.Text, "example.com") || !strings.Contains(reply.Text, "ada.ns.cloudflare.com") {
			t.Errorf("reply missing domain or nameservers: %q", reply.Text)
		}
	}
}

func TestRegisterInvalidDomain(t *testing.T) {
	cf := newFakeProvider()
	reply := run(t, &Register{CF: cf}, "not-a-domain")

	if !strings.Contains(reply.Text, "Invalid domain") {
		t.Errorf("reply = %q, want invalid-domain usage", reply.Text)
	}
	if cf.createZones != 0 {
		t.Error("provider called for invalid domain")
	}
}

func TestStatusPendingIncludesNS(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "pending")

	reply := run(t, &Status{CF: cf}, "ex.com")

	if !strings.Contains(reply.Text, "pending") || !strings.Contains(reply.Text, "ada.ns.cloudflare.com") {
		t.Errorf("pending status reply missing NS: %q", reply.Text)
	}
}

func TestStatusActiveOmitsNS(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &Status{CF: cf}, "ex.com")

	if !strings.Contains(reply.Text, "active") {
		t.Errorf("reply = %q, want active status", reply.Text)
	}
	if strings.Contains(reply.Text, "ns.cloudflare.com") {
		t.Errorf("active status reply should not list NS: %q", reply.Text)
	}
}

func TestStatusUnknownZone(t *testing.T) {
	cf := newFakeProvider()
	reply := run(t, &Status{CF: cf}, "ex.com")

	if !strings.Contains(reply.Text, "/register ex.com") {
		t.Errorf("reply = %q, want register-first guidance", reply.Text)
	}
}

// --- dns_list ---

func TestListFormatsRecords(t *testing.T) {
	cf := newFakeProvider()
	zone := cf.addZone("ex.com", "active")
	proxied := true
	cf.records[zone.ID] = []cloudflare.Record{
		{ID: "r1", Type: "A", Name: "ex.com", Content: "1.2.3.4", Proxied: &proxied},
		{ID: "r2", Type: "TXT", Name: "ex.com", Content: "v=spf1"},
	}

	reply := run(t, &List{CF: cf}, "EX.com")

	if !strings.Contains(reply.Text, "r1 — A ex.com → 1.2.3.4 (proxied)") {
		t.Errorf("proxied record line wrong: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "r2 — TXT ex.com → v=spf1") {
		t.Errorf("plain record line wrong: %q", reply.Text)
	}
}

func TestListEmptyZone(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &List{CF: cf}, "ex.com")
	if reply.Text != "Empty." {
		t.Errorf("reply = %q, want %q", reply.Text, "Empty.")
	}
}

// --- dns_add ---

func TestAddExpandsRootShorthand(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &Add{CF: cf}, "domain=ex.com type=A name=@ content=1.2.3.4")

	if len(cf.created) != 1 {
		t.Fatalf("created %d records, want 1", len(cf.created))
	}
	rec := cf.created[0]
	if rec.Type != "A" || rec.Name != "ex.com" || rec.Content != "1.2.3.4" {
		t.Errorf("record = %+v, want @ expanded to ex.com", rec)
	}
	if rec.TTL != nil || rec.Proxied != nil || rec.Priority != nil {
		t.Errorf("unsupplied optional fields set: %+v", rec)
	}
	if !strings.Contains(reply.Text, "rec-1") {
		t.Errorf("reply missing created record id: %q", reply.Text)
	}
}

func TestAddOptionalFieldsCoerced(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	run(t, &Add{CF: cf}, "domain=ex.com type=MX name=mail content=mx.ex.com ttl=300 proxied=True priority=10")

	rec := cf.created[0]
	if rec.TTL == nil || *rec.TTL != 300 {
		t.Errorf("ttl = %v, want 300", rec.TTL)
	}
	if rec.Priority == nil || *rec.Priority != 10 {
		t.Errorf("priority = %v, want 10", rec.Priority)
	}
	// Only the exact string "true" is truthy.
	if rec.Proxied == nil || *rec.Proxied {
		t.Errorf("proxied = %v, want explicit false for %q", rec.Proxied, "True")
	}
}

func TestAddMissingRequiredArgs(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &Add{CF: cf}, "domain=ex.com type=A")

	if !strings.Contains(reply.Text, "Example:") {
		t.Errorf("reply = %q, want usage example", reply.Text)
	}
	if len(cf.created) != 0 {
		t.Error("provider called with missing required args")
	}
}

func TestAddUnknownZone(t *testing.T) {
	cf := newFakeProvider()
	reply := run(t, &Add{CF: cf}, "domain=ex.com type=A name=@ content=1.2.3.4")

	if !strings.Contains(reply.Text, "not found") {
		t.Errorf("reply = %q, want zone-not-found", reply.Text)
	}
}

func TestAddNonNumericTTL(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &Add{CF: cf}, "domain=ex.com type=A name=@ content=1.2.3.4 ttl=soon")

	if !strings.Contains(reply.Text, "ttl must be a number") {
		t.Errorf("reply = %q, want ttl usage error", reply.Text)
	}
	if len(cf.created) != 0 {
		t.Error("provider called with bad ttl")
	}
}

// --- dns_update ---

func TestUpdateEmptyPatchSkipsProvider(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &Update{CF: cf}, "domain=ex.com id=r1")

	if reply.Text != "Nothing to update." {
		t.Errorf("reply = %q, want %q", reply.Text, "Nothing to update.")
	}
	if cf.updates != 0 {
		t.Errorf("update called %d times for empty patch, want 0", cf.updates)
	}
}

func TestUpdatePartialPatch(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &Update{CF: cf}, "domain=ex.com id=r1 content=1.2.3.5 proxied=false")

	if cf.updates != 1 {
		t.Fatalf("update called %d times, want 1", cf.updates)
	}
	patch := cf.patches[0]
	if patch.Content == nil || *patch.Content != "1.2.3.5" {
		t.Errorf("patch content = %v, want 1.2.3.5", patch.Content)
	}
	if patch.Proxied == nil || *patch.Proxied {
		t.Errorf("patch proxied = %v, want false", patch.Proxied)
	}
	if patch.TTL != nil {
		t.Errorf("patch ttl = %v, want unset", patch.TTL)
	}
	if !strings.Contains(reply.Text, "1.2.3.5") {
		t.Errorf("reply = %q, want updated content", reply.Text)
	}
}

// --- dns_delete ---

func TestDeleteRecord(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")

	reply := run(t, &Delete{CF: cf}, "domain=ex.com id=r9")

	if len(cf.deleted) != 1 || cf.deleted[0] != "r9" {
		t.Errorf("deleted = %v, want [r9]", cf.deleted)
	}
	if !strings.Contains(reply.Text, "r9") {
		t.Errorf("reply = %q, want deleted record id", reply.Text)
	}
}

func TestDeleteMissingArgs(t *testing.T) {
	cf := newFakeProvider()
	reply := run(t, &Delete{CF: cf}, "domain=ex.com")

	if !strings.Contains(reply.Text, "Example:") {
		t.Errorf("reply = %q, want usage example", reply.Text)
	}
	if len(cf.deleted) != 0 {
		t.Error("provider called with missing id")
	}
}

// --- provider failure propagation ---

func TestProviderErrorsPropagate(t *testing.T) {
	cf := newFakeProvider()
	cf.addZone("ex.com", "active")
	cf.err = &cloudflare.APIError{Message: "rate limited"}

	cmds := []struct {
		cmd     Command
		argText string
	}{
		{&Status{CF: cf}, "ex.com"},
		{&Register{CF: cf}, "ex.com"},
		{&List{CF: cf}, "ex.com"},
		{&Add{CF: cf}, "domain=ex.com type=A name=@ content=1.2.3.4"},
		{&Update{CF: cf}, "domain=ex.com id=r1 content=1.2.3.5"},
		{&Delete{CF: cf}, "domain=ex.com id=r1"},
	}
	for _, tc := range cmds {
		_, err := tc.cmd.Execute(context.Background(), Request{Args: tc.argText})
		if err == nil {
			t.Errorf("%s swallowed provider error", tc.cmd.Name())
			continue
		}
		if !strings.Contains(err.Error(), "rate limited") {
			t.Errorf("%s error = %q, want provider message", tc.cmd.Name(), err)
		}
	}
}

// --- diagnostics ---

func TestWhoamiIncludesIdentity(t *testing.T) {
	reply, err := (&Whoami{}).Execute(context.Background(), Request{
		ChatID: 111, ChatType: "supergroup", ChatTitle: "ops", UserID: 7, Username: "alice",
	})
	if err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	for _, want := range []string{`"chat_id": 111`, `"chat_type": "supergroup"`, `"from_username": "alice"`} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("reply missing %q: %q", want, reply.Text)
		}
	}
}

func TestMyIDWithoutUsername(t *testing.T) {
	reply, err := (&MyID{}).Execute(context.Background(), Request{UserID: 7})
	if err != nil {
		t.Fatalf("myid failed: %v", err)
	}
	if !strings.Contains(reply.Text, "(no username)") {
		t.Errorf("reply = %q, want no-username placeholder", reply.Text)
	}
}
