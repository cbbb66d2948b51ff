// Copyright 2025 cohalz
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mackerel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	toolserrors "github.com/cohalz/tools/internal/errors"
)

func TestFetchAlerts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/alerts" {
			t.Errorf("path = %s, want /api/v0/alerts", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q, want test-key", got)
		}
		q := r.URL.Query()
		if q.Get("withClosed") != "true" {
			t.Errorf("withClosed = %q, want true", q.Get("withClosed"))
		}
		if q.Get("limit") != "2" {
			t.Errorf("limit = %q, want 2", q.Get("limit"))
		}
		if q.Get("nextId") != "cursor-1" {
			t.Errorf("nextId = %q, want cursor-1", q.Get("nextId"))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"alerts": []map[string]interface{}{
				{"id": "a1", "monitorId": "m1", "type": "host", "status": "CRITICAL", "openedAt": 1700000000},
				{"id": "a2", "monitorId": "m2", "type": "external", "status": "OK", "openedAt": 1699990000, "closedAt": 1699993600},
			},
			"nextId": "cursor-2",
		})
	}))
	defer server.Close()

	client := NewRESTClient("test-key", server.URL)
	page, err := client.FetchAlerts(context.Background(), FetchOptions{Limit: 2, NextID: "cursor-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(page.Alerts))
	}
	if page.NextID != "cursor-2" {
		t.Errorf("nextId = %q, want cursor-2", page.NextID)
	}
	if page.Alerts[0].ID != "a1" || page.Alerts[0].ClosedAt != 0 {
		t.Errorf("alert[0] = %+v, want open alert a1", page.Alerts[0])
	}
	if _, closed := page.Alerts[1].ClosedTime(); !closed {
		t.Error("alert[1] should be closed")
	}
}

func TestFetchAlertsDefaultsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q, want 100", got)
		}
		if r.URL.Query().Has("nextId") {
			t.Error("nextId should be absent on the first page")
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"alerts": []interface{}{}})
	}))
	defer server.Close()

	client := NewRESTClient("test-key", server.URL)
	if _, err := client.FetchAlerts(context.Background(), FetchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchMonitors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/monitors" {
			t.Errorf("path = %s, want /api/v0/monitors", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"monitors": []map[string]interface{}{
				{"id": "m1", "name": "cpu", "type": "host", "scopes": []string{"svcA:web"}},
				{"id": "m2", "name": "ping", "type": "connectivity"},
			},
		})
	}))
	defer server.Close()

	client := NewRESTClient("test-key", server.URL)
	monitors, err := client.FetchMonitors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(monitors) != 2 {
		t.Fatalf("got %d monitors, want 2", len(monitors))
	}
	if monitors[0].Name != "cpu" || len(monitors[0].Scopes) != 1 {
		t.Errorf("monitor[0] = %+v", monitors[0])
	}
}

func TestUpdateNotificationGroup(t *testing.T) {
	var gotBody NotificationGroup

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/api/v0/notification-groups/ng1" {
			t.Errorf("path = %s, want /api/v0/notification-groups/ng1", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "ng1"})
	}))
	defer server.Close()

	client := NewRESTClient("test-key", server.URL)
	group := &NotificationGroup{
		ID:   "ng1",
		Name: "oncall",
		Monitors: []NotificationGroupMonitor{
			{ID: "m1", SkipDefault: false},
		},
	}
	if err := client.UpdateNotificationGroup(context.Background(), group); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody.Name != "oncall" || len(gotBody.Monitors) != 1 {
		t.Errorf("server received %+v", gotBody)
	}
}

func TestUpdateNotificationGroupWithoutID(t *testing.T) {
	client := NewRESTClient("test-key", "http://unused.invalid")
	err := client.UpdateNotificationGroup(context.Background(), &NotificationGroup{Name: "oncall"})
	if !errors.Is(err, toolserrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantText string
	}{
		{
			name:    "401 maps to invalid token",
			status:  http.StatusUnauthorized,
			body:    `{"error":"Authentication failed"}`,
			wantErr: toolserrors.ErrInvalidToken,
		},
		{
			name:    "403 maps to invalid token",
			status:  http.StatusForbidden,
			wantErr: toolserrors.ErrInvalidToken,
		},
		{
			name:    "404 maps to not found",
			status:  http.StatusNotFound,
			wantErr: toolserrors.ErrNotFound,
		},
		{
			name:    "429 maps to rate limit",
			status:  http.StatusTooManyRequests,
			wantErr: toolserrors.ErrRateLimit,
		},
		{
			name:     "500 keeps status and body",
			status:   http.StatusInternalServerError,
			body:     "boom",
			wantText: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewRESTClient("test-key", server.URL)
			_, err := client.FetchMonitors(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantText)
			}
		})
	}
}

func TestNetworkErrorMapping(t *testing.T) {
	// Nothing listens here; the dial fails immediately.
	client := NewRESTClient("test-key", "http://127.0.0.1:1")
	_, err := client.FetchMonitors(context.Background())
	if !errors.Is(err, toolserrors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure", err)
	}
}
