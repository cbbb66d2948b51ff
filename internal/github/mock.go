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

import "context"

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// TeamPages to return, one per FetchTeams call. Once exhausted the last
	// page is repeated.
	TeamPages []*TeamPage

	// FetchErr is returned from FetchTeams when set.
	FetchErr error

	// AddErrs maps "slug/login" to the error AddTeamMaintainer should return.
	AddErrs map[string]error

	// Track calls for verification
	FetchCalls int
	Added      []string // "slug/login" in call order
	LastOrg    string
	LastOpts   FetchOptions
}

// FetchTeams returns the next canned team page.
func (m *MockClient) FetchTeams(ctx context.Context, org string, opts FetchOptions) (*TeamPage, error) {
	m.LastOrg = org
	m.LastOpts = opts
	call := m.FetchCalls
	m.FetchCalls++

	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if len(m.TeamPages) == 0 {
		return &TeamPage{}, nil
	}
	if call >= len(m.TeamPages) {
		call = len(m.TeamPages) - 1
	}
	return m.TeamPages[call], nil
}

// AddTeamMaintainer records the membership update.
func (m *MockClient) AddTeamMaintainer(ctx context.Context, org, slug, login string) error {
	key := slug + "/" + login
	m.Added = append(m.Added, key)
	if err, ok := m.AddErrs[key]; ok {
		return err
	}
	return nil
}
