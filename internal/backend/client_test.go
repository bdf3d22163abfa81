package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTierStatusByEmail(t *testing.T) {
	var gotAuth, gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotEmail = r.URL.Query().Get("email")
		_ = json.NewEncoder(w).Encode(TierStatus{
			SelectedTier:   "Team",
			CurrentStorage: "300 GB",
			Status:         "active",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("tok-123"))
	status, err := c.TierStatusByEmail(context.Background(), "dana+test@example.com")
	if err != nil {
		t.Fatalf("TierStatusByEmail() error = %v", err)
	}
	if status == nil || status.Tier() != "Team" || status.CurrentStorage != "300 GB" {
		t.Errorf("status = %+v", status)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotEmail != "dana+test@example.com" {
		t.Errorf("email query = %q", gotEmail)
	}
}

func TestTierStatusNotFoundMeansFirstTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	status, err := c.TierStatusByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("TierStatusByEmail() error = %v", err)
	}
	if status != nil {
		t.Errorf("status = %+v, want nil for first-time users", status)
	}
}

func TestTierStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"ok":false,"message":"tier service unavailable"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.TierStatusByEmail(context.Background(), "x@example.com")

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %T, want *RemoteError", err)
	}
	if remote.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", remote.StatusCode)
	}
	if remote.Message != "tier service unavailable" {
		t.Errorf("Message = %q, backend message should be preferred", remote.Message)
	}
}

func TestSubmitUpgrade(t *testing.T) {
	var got UpgradeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tiers/upgrade" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	upgrade := UpgradeRequest{
		Email:        "dana@example.com",
		PreviousTier: "Starter",
		NewTier:      "Team",
		Status:       "pending",
	}
	if err := c.SubmitUpgrade(context.Background(), upgrade); err != nil {
		t.Fatalf("SubmitUpgrade() error = %v", err)
	}
	if got != upgrade {
		t.Errorf("backend received %+v, want %+v", got, upgrade)
	}
}

func TestSubmitUpgradeRejectedAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "message": "quota exceeded"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SubmitUpgrade(context.Background(), UpgradeRequest{})

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %T, want *RemoteError", err)
	}
	if remote.Message != "quota exceeded" {
		t.Errorf("Message = %q", remote.Message)
	}
}

func TestSubmitRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/requests" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["requestType"] != "aws" {
			t.Errorf("requestType = %v", body["requestType"])
		}
		_ = json.NewEncoder(w).Encode(Receipt{OK: true, TicketID: "REQ-4821"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	receipt, err := c.SubmitRequest(context.Background(), map[string]string{"requestType": "aws"})
	if err != nil {
		t.Fatalf("SubmitRequest() error = %v", err)
	}
	if receipt.TicketID != "REQ-4821" {
		t.Errorf("TicketID = %q", receipt.TicketID)
	}
}

func TestSubmitRequestRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Receipt{OK: false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SubmitRequest(context.Background(), map[string]string{}); err == nil {
		t.Error("SubmitRequest() accepted a rejected receipt")
	}
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"healthy", http.StatusOK, false},
		{"auth required still reachable", http.StatusUnauthorized, false},
		{"server down", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewClient(srv.URL).Ping(context.Background())
			if tt.wantErr && err == nil {
				t.Error("Ping() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Ping() = %v", err)
			}
		})
	}
}

func TestUnreachableBackend(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	if _, err := c.TierStatusByEmail(context.Background(), "x@example.com"); err == nil {
		t.Error("expected a transport error")
	}
	if err := c.SubmitUpgrade(context.Background(), UpgradeRequest{}); err == nil {
		t.Error("expected a transport error")
	}
}
