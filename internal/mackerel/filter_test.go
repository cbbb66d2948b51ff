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

import "testing"

func TestFilterByService(t *testing.T) {
	monitors := []Monitor{
		{ID: "m1", Name: "cpu", Scopes: []string{"svcA:role"}},
		{ID: "m2", Name: "memory", Scopes: []string{"svcB"}},
		{ID: "m3", Name: "disk", Scopes: []string{"svcB:db", "svcA:web"}},
		{ID: "m4", Name: "connectivity"}, // no scopes
		{ID: "m5", Name: "latency", ExcludeScopes: []string{"svcA:web"}},
	}

	tests := []struct {
		name    string
		service string
		wantIDs []string
	}{
		{
			name:    "scope with role matches its service",
			service: "svcA",
			wantIDs: []string{"m1", "m3"},
		},
		{
			name:    "bare service scope matches",
			service: "svcB",
			wantIDs: []string{"m2", "m3"},
		},
		{
			name:    "no monitors for unknown service",
			service: "svcC",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByService(monitors, tt.service)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d monitors, want %d", len(got), len(tt.wantIDs))
			}
			for i, m := range got {
				if m.ID != tt.wantIDs[i] {
					t.Errorf("monitor[%d] = %s, want %s", i, m.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

// A monitor matched only through excludeScopes must not be selected.
func TestFilterByServiceIgnoresExcludeScopes(t *testing.T) {
	monitors := []Monitor{
		{ID: "m1", Name: "latency", ExcludeScopes: []string{"svcA:web"}},
	}
	if got := FilterByService(monitors, "svcA"); len(got) != 0 {
		t.Errorf("got %d monitors, want 0", len(got))
	}
}

func TestExcludeAllServices(t *testing.T) {
	monitors := []Monitor{
		{ID: "m1", Scopes: []string{"svcA:role"}},
		{ID: "m2"},                     // absent scopes
		{ID: "m3", Scopes: []string{}}, // empty scopes
		{ID: "m4", Scopes: []string{"svcB"}},
	}

	got := ExcludeAllServices(monitors)
	if len(got) != 2 {
		t.Fatalf("got %d monitors, want 2", len(got))
	}
	if got[0].ID != "m1" || got[1].ID != "m4" {
		t.Errorf("kept %s and %s, want m1 and m4", got[0].ID, got[1].ID)
	}
}

func TestScopeService(t *testing.T) {
	tests := []struct {
		scope string
		want  string
	}{
		{"svcA:role", "svcA"},
		{"svcA", "svcA"},
		{"svcA:role:extra", "svcA"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ScopeService(tt.scope); got != tt.want {
			t.Errorf("ScopeService(%q) = %q, want %q", tt.scope, got, tt.want)
		}
	}
}
