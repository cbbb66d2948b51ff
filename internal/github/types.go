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

// Package github provides types and a client for GitHub's team-management
// API. Reads go through the GraphQL API; membership writes go through REST.
package github

// Team represents a GitHub team with its current maintainers.
type Team struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Maintainers []string `json:"maintainers"`
}

// HasMaintainer reports whether login is already a maintainer of the team.
func (t Team) HasMaintainer(login string) bool {
	for _, m := range t.Maintainers {
		if m == login {
			return true
		}
	}
	return false
}

// TeamPage represents a page of teams from a GraphQL query, with the
// pagination information needed to fetch subsequent pages.
type TeamPage struct {
	Teams       []Team
	HasNextPage bool
	EndCursor   string
}

// FetchOptions configures how teams are fetched. It supports pagination
// through the After cursor field.
type FetchOptions struct {
	// PageSize controls how many teams to fetch per page.
	// Defaults to 50 if not specified. Maximum is 100 per GitHub's API limits.
	PageSize int

	// After is the cursor for pagination.
	// Empty string fetches from the beginning.
	After string
}

const defaultPageSize = 50
