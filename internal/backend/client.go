// Package backend talks to the reseller's workflow backend: the tier
// service and the request submission service. Both are plain JSON over
// HTTP and consumed as black boxes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds each backend call. The wizard stays interactive
// while a call is in flight, so a generous bound is fine.
const DefaultTimeout = 15 * time.Second

// RemoteError is a failed backend call with whatever human-readable message
// the backend supplied. Every remote failure is safely retryable: the
// responsible step stays not-ready and no partial state is committed.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// TierStatus is the backend's view of a user's current tier. Status
// "pending" means an upgrade is awaiting resolution and further tier
// changes are disabled.
type TierStatus struct {
	SelectedTier   string `json:"selectedTier"`
	CurrentTier    string `json:"currentTier"`
	CurrentStorage string `json:"currentStorage"`
	Status         string `json:"status"`
}

// Tier returns whichever tier field the backend populated.
func (s *TierStatus) Tier() string {
	if s.SelectedTier != "" {
		return s.SelectedTier
	}
	return s.CurrentTier
}

// UpgradeRequest is the payload posted when a confirmed upgrade is
// committed.
type UpgradeRequest struct {
	Email           string `json:"email"`
	PreviousTier    string `json:"previousTier"`
	NewTier         string `json:"newTier"`
	PreviousStorage string `json:"previousStorage"`
	NewStorage      string `json:"newStorage"`
	Status          string `json:"status"`
}

// Receipt is returned by a successful final submission.
type Receipt struct {
	OK       bool   `json:"ok"`
	TicketID string `json:"externalTicketId"`
}

type ackBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Client calls the reseller backend. The zero http.Client is replaced with
// one carrying DefaultTimeout.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken attaches the session's bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient swaps the underlying HTTP client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TierStatusByEmail fetches the current tier for a user. A 404 means the
// user has never selected a tier; that is not an error, the result is nil.
func (c *Client) TierStatusByEmail(ctx context.Context, email string) (*TierStatus, error) {
	endpoint := fmt.Sprintf("%s/api/tiers/current?email=%s", c.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &RemoteError{Op: "fetching tier status", Err: err}
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: "fetching tier status", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remoteFromBody("fetching tier status", resp)
	}

	var status TierStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &RemoteError{Op: "fetching tier status", Err: err}
	}
	return &status, nil
}

// SubmitUpgrade posts a confirmed tier upgrade.
func (c *Client) SubmitUpgrade(ctx context.Context, upgrade UpgradeRequest) error {
	var ack ackBody
	if err := c.postJSON(ctx, "submitting tier upgrade", "/api/tiers/upgrade", upgrade, &ack); err != nil {
		return err
	}
	if !ack.OK {
		return &RemoteError{Op: "submitting tier upgrade", Message: ack.Message}
	}
	return nil
}

// SubmitRequest posts the final request payload and returns the external
// ticket id.
func (c *Client) SubmitRequest(ctx context.Context, payload interface{}) (*Receipt, error) {
	var receipt Receipt
	if err := c.postJSON(ctx, "submitting request", "/api/requests", payload, &receipt); err != nil {
		return nil, err
	}
	if !receipt.OK {
		return nil, &RemoteError{Op: "submitting request", Message: "backend rejected the request"}
	}
	return &receipt, nil
}

// Ping checks backend reachability with a cheap unauthenticated probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return &RemoteError{Op: "pinging backend", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Op: "pinging backend", Err: err}
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &RemoteError{Op: "pinging backend", StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteFromBody(op, resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RemoteError{Op: op, Err: err}
		}
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// remoteFromBody builds a RemoteError from an error response, preferring the
// backend's own message when one is present.
func remoteFromBody(op string, resp *http.Response) error {
	remote := &RemoteError{Op: op, StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return remote
	}
	var body ackBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		remote.Message = body.Message
	}
	return remote
}
