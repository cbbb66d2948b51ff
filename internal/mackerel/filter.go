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

import "strings"

// FilterByService returns the monitors associated with the given service
// through their scopes. A scope of the form "service" or "service:role"
// matches on the service part; excludeScopes never match.
func FilterByService(monitors []Monitor, service string) []Monitor {
	filtered := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		for _, scope := range m.Scopes {
			if ScopeService(scope) == service {
				filtered = append(filtered, m)
				break
			}
		}
	}
	return filtered
}

// ExcludeAllServices drops monitors whose scopes are empty or absent, i.e.
// monitors that fire for every service.
func ExcludeAllServices(monitors []Monitor) []Monitor {
	filtered := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		if len(m.Scopes) > 0 {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// ScopeService extracts the service part of a scope ("service:role" or
// "service").
func ScopeService(scope string) string {
	if i := strings.IndexByte(scope, ':'); i >= 0 {
		return scope[:i]
	}
	return scope
}
