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

// Client defines the interface for interacting with GitHub's team-management
// API. This interface allows for easy mocking in tests.
type Client interface {
	// FetchTeams retrieves a page of the organization's teams along with
	// their current maintainers. It supports cursor-based pagination through
	// the opts.After parameter.
	FetchTeams(ctx context.Context, org string, opts FetchOptions) (*TeamPage, error)

	// AddTeamMaintainer adds login to the team with role maintainer,
	// promoting an existing member if necessary.
	AddTeamMaintainer(ctx context.Context, org, slug, login string) error
}
