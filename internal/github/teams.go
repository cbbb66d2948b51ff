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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cohalz/tools/internal/apierror"
	toolserrors "github.com/cohalz/tools/internal/errors"
	gogithub "github.com/google/go-github/v68/github"
	"github.com/shurcooL/graphql"
	"golang.org/x/oauth2"
)

// TeamClient implements the Client interface against the real GitHub API.
// Team listing uses the GraphQL API (one request yields teams together with
// their maintainers); membership writes use the REST API, which GraphQL does
// not expose.
type TeamClient struct {
	graphql   *graphql.Client
	rest      *gogithub.Client
	inspector apierror.Inspector
}

// NewTeamClient creates a GitHub client authenticated with the given token.
// apiEndpoint and graphqlEndpoint allow pointing the client at a GitHub
// Enterprise deployment or a test server.
func NewTeamClient(token, apiEndpoint, graphqlEndpoint string) (*TeamClient, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)

	rest := gogithub.NewClient(httpClient)
	if apiEndpoint != "" && apiEndpoint != "https://api.github.com" {
		base := strings.TrimSuffix(apiEndpoint, "/") + "/"
		var err error
		rest, err = rest.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API endpoint %q: %w", apiEndpoint, err)
		}
	}

	return &TeamClient{
		graphql:   graphql.NewClient(graphqlEndpoint, httpClient),
		rest:      rest,
		inspector: apierror.NewInspector(),
	}, nil
}

// FetchTeams retrieves a page of the organization's teams with their current
// maintainers via a single GraphQL query.
func (c *TeamClient) FetchTeams(ctx context.Context, org string, opts FetchOptions) (*TeamPage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var query struct {
		Organization struct {
			Teams struct {
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
				Nodes []struct {
					Slug    graphql.String
					Name    graphql.String
					Members struct {
						Nodes []struct {
							Login graphql.String
						}
					} `graphql:"members(first: 100, membership: IMMEDIATE, role: MAINTAINER)"`
				}
			} `graphql:"teams(first: $first, after: $after)"`
		} `graphql:"organization(login: $org)"`
	}

	variables := map[string]interface{}{
		"org":   graphql.String(org),
		"first": graphql.Int(int32(pageSize)), // #nosec G115 - pageSize is capped at 100
		"after": (*graphql.String)(nil),
	}
	if opts.After != "" {
		variables["after"] = graphql.NewString(graphql.String(opts.After))
	}

	if err := c.graphql.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, org)
	}

	page := &TeamPage{
		HasNextPage: bool(query.Organization.Teams.PageInfo.HasNextPage),
		EndCursor:   string(query.Organization.Teams.PageInfo.EndCursor),
		Teams:       make([]Team, 0, len(query.Organization.Teams.Nodes)),
	}

	for _, node := range query.Organization.Teams.Nodes {
		team := Team{
			Slug:        string(node.Slug),
			Name:        string(node.Name),
			Maintainers: make([]string, 0, len(node.Members.Nodes)),
		}
		for _, member := range node.Members.Nodes {
			team.Maintainers = append(team.Maintainers, string(member.Login))
		}
		page.Teams = append(page.Teams, team)
	}

	return page, nil
}

// AddTeamMaintainer PUTs team membership for login with role maintainer.
func (c *TeamClient) AddTeamMaintainer(ctx context.Context, org, slug, login string) error {
	opts := &gogithub.TeamAddTeamMembershipOptions{Role: "maintainer"}
	_, resp, err := c.rest.Teams.AddTeamMembershipBySlug(ctx, org, slug, login, opts)
	if err != nil {
		return c.mapRESTError(err, resp, org, slug, login)
	}
	return nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages.
func (c *TeamClient) mapError(err error, org string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", toolserrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", toolserrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("organization %q not found. Please check the organization name and your access permissions: %w", org, toolserrors.ErrNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to the GitHub API. Please check your internet connection and try again: %w", toolserrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to fetch teams: %w", err)
}

// mapRESTError maps a go-github error to our domain errors, preserving the
// upstream status and body in the message.
func (c *TeamClient) mapRESTError(err error, resp *gogithub.Response, org, slug, login string) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	var errResp *gogithub.ErrorResponse
	detail := err.Error()
	if errors.As(err, &errResp) {
		detail = errResp.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("GitHub API rejected the membership update for %s/%s (%d: %s): %w",
			org, slug, status, detail, toolserrors.ErrInvalidToken)
	case http.StatusNotFound:
		return fmt.Errorf("team %s/%s or user %s not found (%d: %s): %w",
			org, slug, login, status, detail, toolserrors.ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("GitHub API rate limit exceeded updating %s/%s: %w",
			org, slug, toolserrors.ErrRateLimit)
	default:
		if c.inspector.IsNetworkError(err) {
			return fmt.Errorf("network error updating team %s/%s: %w", org, slug, toolserrors.ErrNetworkFailure)
		}
		return fmt.Errorf("failed to add %s as maintainer of %s/%s (status %d): %s",
			login, org, slug, status, detail)
	}
}
