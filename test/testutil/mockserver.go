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

// Package testutil provides common test helpers for opstool
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cohalz/tools/internal/mackerel"
)

// MackerelFixture is the canned organization state a MackerelServer serves.
// Alerts must be ordered newest first, the way the real API returns them.
type MackerelFixture struct {
	Alerts             []mackerel.Alert
	Monitors           []mackerel.Monitor
	NotificationGroups []mackerel.NotificationGroup
}

// MackerelServer is an httptest server speaking enough of the Mackerel REST
// API for end-to-end tests: paginated alert history, monitor and notification
// group listing, and notification group updates.
type MackerelServer struct {
	*httptest.Server

	fixture MackerelFixture

	mu           sync.Mutex
	requestCount int32
	lastAPIKey   string
	updated      []mackerel.NotificationGroup
}

// NewMackerelServer starts a mock Mackerel API serving the given fixture.
// The server is shut down when the test finishes.
func NewMackerelServer(t *testing.T, fixture MackerelFixture) *MackerelServer {
	t.Helper()

	s := &MackerelServer{fixture: fixture}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// RequestCount returns how many requests the server has seen.
func (s *MackerelServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

// LastAPIKey returns the X-Api-Key header of the most recent request.
func (s *MackerelServer) LastAPIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAPIKey
}

// UpdatedGroups returns the notification groups received via PUT, in order.
func (s *MackerelServer) UpdatedGroups() []mackerel.NotificationGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mackerel.NotificationGroup(nil), s.updated...)
}

func (s *MackerelServer) handle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.requestCount, 1)
	s.mu.Lock()
	s.lastAPIKey = r.Header.Get("X-Api-Key")
	s.mu.Unlock()

	switch {
	case r.URL.Path == "/api/v0/alerts":
		s.serveAlerts(w, r)
	case r.URL.Path == "/api/v0/monitors":
		writeJSON(w, map[string]interface{}{"monitors": s.fixture.Monitors})
	case r.URL.Path == "/api/v0/notification-groups" && r.Method == http.MethodGet:
		writeJSON(w, map[string]interface{}{"notificationGroups": s.fixture.NotificationGroups})
	case len(r.URL.Path) > len("/api/v0/notification-groups/") && r.Method == http.MethodPut:
		s.serveGroupUpdate(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "not found"}`))
	}
}

// serveAlerts slices the fixture's alert history into pages. The cursor is
// the index of the first alert of the next page, encoded as a string the way
// the real API hands out opaque nextId values.
func (s *MackerelServer) serveAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	start := 0
	if cursor := r.URL.Query().Get("nextId"); cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 || n > len(s.fixture.Alerts) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "invalid nextId"}`))
			return
		}
		start = n
	}

	end := start + limit
	if end > len(s.fixture.Alerts) {
		end = len(s.fixture.Alerts)
	}

	body := map[string]interface{}{"alerts": s.fixture.Alerts[start:end]}
	if end < len(s.fixture.Alerts) {
		body["nextId"] = strconv.Itoa(end)
	}
	writeJSON(w, body)
}

func (s *MackerelServer) serveGroupUpdate(w http.ResponseWriter, r *http.Request) {
	var group mackerel.NotificationGroup
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid body"}`))
		return
	}
	group.ID = r.URL.Path[len("/api/v0/notification-groups/"):]

	s.mu.Lock()
	s.updated = append(s.updated, group)
	s.mu.Unlock()

	writeJSON(w, group)
}

// NewErrorServer creates a mock server that always returns the specified
// status code.
func NewErrorServer(t *testing.T, statusCode int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	}))
	t.Cleanup(server.Close)
	return server
}

// NewRateLimitServer creates a mock server that answers 429 for the first
// failCount requests and serves the fixture afterwards.
func NewRateLimitServer(t *testing.T, failCount int, fixture MackerelFixture) *MackerelServer {
	t.Helper()

	s := &MackerelServer{fixture: fixture}
	var requests int32
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) <= int32(failCount) {
			atomic.AddInt32(&s.requestCount, 1)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": "API rate limit exceeded"}`))
			return
		}
		s.handle(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
