// Package cloudflare is a thin client for the Cloudflare v4 API covering
// the zone and DNS record operations the bot needs.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.cloudflare.com/client/v4"
	httpTimeout    = 15 * time.Second
)

// Zone is a managed DNS zone.
type Zone struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	NameServers []string `json:"name_servers"`
}

// ZoneStatus is the activation state of a zone looked up by name.
type ZoneStatus struct {
	ID     string
	Status string
}

// Record is a single DNS record. Optional fields use pointers so that
// absent values are omitted from request bodies entirely.
type Record struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	TTL      *int   `json:"ttl,omitempty"`
	Proxied  *bool  `json:"proxied,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

// RecordPatch is a partial record update. Only non-nil fields are sent.
type RecordPatch struct {
	Content *string `json:"content,omitempty"`
	TTL     *int    `json:"ttl,omitempty"`
	Proxied *bool   `json:"proxied,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p RecordPatch) Empty() bool {
	return p.Content == nil && p.TTL == nil && p.Proxied == nil
}

// APIError is a normalized Cloudflare failure. Message carries the first
// error message from the response envelope when one was supplied.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "Cloudflare: " + e.Message
	}
	return fmt.Sprintf("Cloudflare: request failed with status %d", e.StatusCode)
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiMessage    `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// Client talks to the Cloudflare API. Either a scoped API token or the
// legacy global email/key pair must be supplied.
type Client struct {
	token     string
	email     string
	apiKey    string
	accountID string
	client    *http.Client
	baseURL   string
}

// New creates a Client authenticating with a scoped API token.
func New(token, accountID string) *Client {
	return &Client{
		token:     token,
		accountID: accountID,
		client:    &http.Client{Timeout: httpTimeout},
		baseURL:   defaultBaseURL,
	}
}

// NewWithGlobalKey creates a Client authenticating with the legacy global
// API key.
func NewWithGlobalKey(email, apiKey, accountID string) *Client {
	return &Client{
		email:     email,
		apiKey:    apiKey,
		accountID: accountID,
		client:    &http.Client{Timeout: httpTimeout},
		baseURL:   defaultBaseURL,
	}
}

// WithBaseURL overrides the API base URL (for testing).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// CreateZone creates a zone under the configured account.
func (c *Client) CreateZone(ctx context.Context, name string) (*Zone, error) {
	body := map[string]any{
		"name":       name,
		"jump_start": true,
	}
	if c.accountID != "" {
		body["account"] = map[string]string{"id": c.accountID}
	}

	var zone Zone
	if err := c.do(ctx, http.MethodPost, "/zones", body, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// GetZoneByName looks up a zone by exact name. Returns (nil, nil) when no
// such zone exists.
func (c *Client) GetZoneByName(ctx context.Context, name string) (*Zone, error) {
	path := "/zones?" + url.Values{"name": {name}, "per_page": {"1"}}.Encode()

	var zones []Zone
	if err := c.do(ctx, http.MethodGet, path, nil, &zones); err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, nil
	}
	return &zones[0], nil
}

// GetZoneNS returns the nameservers assigned to a zone.
func (c *Client) GetZoneNS(ctx context.Context, zoneID string) ([]string, error) {
	var zone Zone
	if err := c.do(ctx, http.MethodGet, "/zones/"+zoneID, nil, &zone); err != nil {
		return nil, err
	}
	return zone.NameServers, nil
}

// GetZoneStatus looks up a zone by name and reports its activation status.
// Returns (nil, nil) when the zone does not exist.
func (c *Client) GetZoneStatus(ctx context.Context, name string) (*ZoneStatus, error) {
	zone, err := c.GetZoneByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, nil
	}
	status := zone.Status
	if status == "" {
		status = "unknown"
	}
	return &ZoneStatus{ID: zone.ID, Status: status}, nil
}

// ListRecords returns the DNS records of a zone.
func (c *Client) ListRecords(ctx context.Context, zoneID string) ([]Record, error) {
	path := "/zones/" + zoneID + "/dns_records?per_page=100"

	var records []Record
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord creates a DNS record in a zone.
func (c *Client) CreateRecord(ctx context.Context, zoneID string, rec Record) (*Record, error) {
	var created Record
	if err := c.do(ctx, http.MethodPost, "/zones/"+zoneID+"/dns_records", rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRecord applies a partial update to a DNS record.
func (c *Client) UpdateRecord(ctx context.Context, zoneID, recordID string, patch RecordPatch) (*Record, error) {
	var updated Record
	if err := c.do(ctx, http.MethodPatch, "/zones/"+zoneID+"/dns_records/"+recordID, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRecord removes a DNS record from a zone.
func (c *Client) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	return c.do(ctx, http.MethodDelete, "/zones/"+zoneID+"/dns_records/"+recordID, nil, nil)
}

// do performs a request and decodes the {success, errors, result} envelope.
// Failures of any kind are normalized into *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set("X-Auth-Email", c.email)
		req.Header.Set("X-Auth-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}

	if !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(env.Errors) > 0 {
			apiErr.Message = env.Errors[0].Message
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}
