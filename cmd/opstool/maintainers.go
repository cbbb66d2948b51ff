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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cohalz/tools/internal/config"
	toolserrors "github.com/cohalz/tools/internal/errors"
	"github.com/cohalz/tools/internal/github"
	"github.com/spf13/cobra"
)

// newSyncMaintainersCommand builds the sync-maintainers subcommand.
func newSyncMaintainersCommand() *cobra.Command {
	var (
		token       string
		configPath  string
		org         string
		maintainers []string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "sync-maintainers",
		Short: "Promote a set of logins to maintainer on every team of an org",
		Long: `Walk all teams of a GitHub organization and make sure every login given
with --maintainer holds the maintainer role on each of them. A team that
fails to update is logged and skipped; the remaining teams are still
processed, and the command exits non-zero afterwards.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncMaintainers(cmd.Context(), syncMaintainersOptions{
				token:       token,
				configPath:  configPath,
				org:         org,
				maintainers: maintainers,
				dryRun:      dryRun,
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&org, "org", "", "GitHub organization")
	cmd.Flags().StringArrayVar(&maintainers, "maintainer", nil, "Login to promote (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the would-be updates without applying them")

	return cmd
}

type syncMaintainersOptions struct {
	token       string
	configPath  string
	org         string
	maintainers []string
	dryRun      bool
}

func runSyncMaintainers(ctx context.Context, opts syncMaintainersOptions) error {
	if opts.org == "" {
		return fmt.Errorf("--org is required: %w", toolserrors.ErrMissingCredentials)
	}
	if len(opts.maintainers) == 0 {
		return fmt.Errorf("at least one --maintainer is required: %w", toolserrors.ErrMissingCredentials)
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	token := resolveCredential(opts.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w",
			cfg.GitHub.TokenEnv, toolserrors.ErrMissingCredentials)
	}

	client, err := github.NewTeamClient(token, cfg.GitHub.APIEndpoint, cfg.GitHub.GraphQLEndpoint)
	if err != nil {
		return err
	}

	delay := time.Duration(cfg.Paging.DelaySeconds) * time.Second
	teams, err := fetchAllTeams(ctx, client, opts.org, delay, cfg.Paging.MaxPages)
	if err != nil {
		return err
	}

	return syncMaintainers(ctx, client, teams, opts)
}

// fetchAllTeams pages through the organization's teams with a fixed delay
// between page requests.
func fetchAllTeams(ctx context.Context, client github.Client, org string, delay time.Duration, maxPages int) ([]github.Team, error) {
	var (
		teams  []github.Team
		cursor = ""
	)

	for page := 1; ; page++ {
		if page > maxPages {
			return nil, fmt.Errorf("team listing for %s did not finish within %d pages: %w",
				org, maxPages, toolserrors.ErrPageLimit)
		}

		p, err := client.FetchTeams(ctx, org, github.FetchOptions{After: cursor})
		if err != nil {
			return nil, err
		}
		teams = append(teams, p.Teams...)

		if !p.HasNextPage {
			break
		}
		cursor = p.EndCursor

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return teams, nil
}

// syncMaintainers promotes the configured logins on every team. A failing
// team is logged and the loop continues; the first failure is reported after
// all teams were attempted.
func syncMaintainers(ctx context.Context, client github.Client, teams []github.Team, opts syncMaintainersOptions) error {
	var (
		updated int
		failed  int
	)

	for _, team := range teams {
		for _, login := range opts.maintainers {
			if team.HasMaintainer(login) {
				continue
			}

			if opts.dryRun {
				fmt.Printf("[dry-run] would add %s as maintainer of %s/%s\n", login, opts.org, team.Slug)
				continue
			}

			if err := client.AddTeamMaintainer(ctx, opts.org, team.Slug, login); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				failed++
				continue
			}
			updated++
		}
	}

	if !opts.dryRun {
		fmt.Fprintf(os.Stderr, "Updated %d team memberships across %d teams\n", updated, len(teams))
	}
	if failed > 0 {
		return fmt.Errorf("%d team membership updates failed", failed)
	}
	return nil
}
