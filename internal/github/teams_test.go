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

package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	toolserrors "github.com/cohalz/tools/internal/errors"
)

func newTestClient(t *testing.T, rest, gql *httptest.Server) *TeamClient {
	t.Helper()

	restURL := "https://api.github.com"
	if rest != nil {
		restURL = rest.URL
	}
	gqlURL := "https://api.github.com/graphql"
	if gql != nil {
		gqlURL = gql.URL
	}

	client, err := NewTeamClient("test-token", restURL, gqlURL)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func TestFetchTeams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}

		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Variables["org"] != "acme" {
			t.Errorf("org variable = %v, want acme", req.Variables["org"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"organization": {
					"teams": {
						"pageInfo": {"hasNextPage": true, "endCursor": "abc"},
						"nodes": [
							{
								"slug": "platform",
								"name": "Platform",
								"members": {"nodes": [{"login": "alice"}, {"login": "bob"}]}
							},
							{
								"slug": "web",
								"name": "Web",
								"members": {"nodes": []}
							}
						]
					}
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, server)
	page, err := client.FetchTeams(context.Background(), "acme", FetchOptions{PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !page.HasNextPage || page.EndCursor != "abc" {
		t.Errorf("pagination = %+v", page)
	}
	if len(page.Teams) != 2 {
		t.Fatalf("got %d teams, want 2", len(page.Teams))
	}

	platform := page.Teams[0]
	if platform.Slug != "platform" || platform.Name != "Platform" {
		t.Errorf("team[0] = %+v", platform)
	}
	if len(platform.Maintainers) != 2 || !platform.HasMaintainer("alice") {
		t.Errorf("maintainers = %v", platform.Maintainers)
	}
	if platform.HasMaintainer("carol") {
		t.Error("carol must not be a maintainer")
	}
	if len(page.Teams[1].Maintainers) != 0 {
		t.Errorf("web maintainers = %v, want none", page.Teams[1].Maintainers)
	}
}

func TestFetchTeamsOrganizationNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"errors": [
				{"message": "Could not resolve to an Organization with the login of 'nope'."}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, server)
	_, err := client.FetchTeams(context.Background(), "nope", FetchOptions{})
	if !errors.Is(err, toolserrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFetchTeamsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, server)
	_, err := client.FetchTeams(context.Background(), "acme", FetchOptions{})
	if !errors.Is(err, toolserrors.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestAddTeamMaintainer(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"role": "maintainer", "state": "active"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	if err := client.AddTeamMaintainer(context.Background(), "acme", "platform", "cohalz"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if want := "/api/v3/orgs/acme/teams/platform/memberships/cohalz"; gotPath != want {
		t.Errorf("path = %s, want %s", gotPath, want)
	}
	if gotBody["role"] != "maintainer" {
		t.Errorf("body role = %q, want maintainer", gotBody["role"])
	}
}

func TestAddTeamMaintainerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "404 maps to not found", status: http.StatusNotFound, wantErr: toolserrors.ErrNotFound},
		{name: "401 maps to invalid token", status: http.StatusUnauthorized, wantErr: toolserrors.ErrInvalidToken},
		{name: "403 maps to invalid token", status: http.StatusForbidden, wantErr: toolserrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message": "nope"}`))
			}))
			defer server.Close()

			client := newTestClient(t, server, nil)
			err := client.AddTeamMaintainer(context.Background(), "acme", "platform", "cohalz")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
