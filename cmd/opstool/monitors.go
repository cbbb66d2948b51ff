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

	"github.com/cohalz/tools/internal/config"
	toolserrors "github.com/cohalz/tools/internal/errors"
	"github.com/cohalz/tools/internal/mackerel"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newAssignMonitorsCommand builds the assign-monitors subcommand.
func newAssignMonitorsCommand() *cobra.Command {
	var (
		apiKey             string
		configPath         string
		service            string
		groupID            string
		excludeAllServices bool
		dryRun             bool
	)

	cmd := &cobra.Command{
		Use:   "assign-monitors",
		Short: "Assign service-scoped monitors to a notification group",
		Long: `Fetch all monitors, keep the ones whose scopes match --service, and
replace the monitor list of the given notification group with them.

--exclude-all-services additionally drops monitors without any scope, i.e.
monitors that fire for every service. --dry-run prints the would-be
assignment without updating anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignMonitors(cmd.Context(), assignMonitorsOptions{
				apiKey:             apiKey,
				configPath:         configPath,
				service:            service,
				groupID:            groupID,
				excludeAllServices: excludeAllServices,
				dryRun:             dryRun,
			})
		},
	}

	cmd.Flags().StringVar(&apiKey, "apikey", "", "Mackerel API key (overrides MACKEREL_APIKEY env var)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&service, "service", "", "Service name to match against monitor scopes")
	cmd.Flags().StringVar(&groupID, "notification-group-id", "", "ID of the notification group to update")
	cmd.Flags().BoolVar(&excludeAllServices, "exclude-all-services", false, "Drop monitors without any scope")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the would-be assignment without updating")

	// The original scripts used camelCase flag names; accept both spellings.
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "notificationGroupId":
			name = "notification-group-id"
		case "excludeAllServices":
			name = "exclude-all-services"
		}
		return pflag.NormalizedName(name)
	})

	return cmd
}

type assignMonitorsOptions struct {
	apiKey             string
	configPath         string
	service            string
	groupID            string
	excludeAllServices bool
	dryRun             bool
}

func runAssignMonitors(ctx context.Context, opts assignMonitorsOptions) error {
	if opts.groupID == "" {
		return fmt.Errorf("--notification-group-id is required: %w", toolserrors.ErrMissingCredentials)
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	apiKey := resolveCredential(opts.apiKey, cfg.Mackerel.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("Mackerel API key not found. Set %s or use --apikey flag: %w",
			cfg.Mackerel.APIKeyEnv, toolserrors.ErrMissingCredentials)
	}

	client := newMackerelClient(apiKey, cfg)
	return assignMonitors(ctx, client, opts)
}

// assignMonitors resolves the target monitors and rewrites the notification
// group's monitor list.
func assignMonitors(ctx context.Context, client mackerel.Client, opts assignMonitorsOptions) error {
	monitors, err := client.FetchMonitors(ctx)
	if err != nil {
		return err
	}

	if opts.service != "" {
		monitors = mackerel.FilterByService(monitors, opts.service)
	}
	if opts.excludeAllServices {
		monitors = mackerel.ExcludeAllServices(monitors)
	}

	group, err := findNotificationGroup(ctx, client, opts.groupID)
	if err != nil {
		return err
	}

	group.Monitors = make([]mackerel.NotificationGroupMonitor, 0, len(monitors))
	for _, m := range monitors {
		group.Monitors = append(group.Monitors, mackerel.NotificationGroupMonitor{
			ID:          m.ID,
			SkipDefault: false,
		})
	}

	if opts.dryRun {
		fmt.Printf("[dry-run] would assign %d monitors to notification group %q (%s):\n",
			len(monitors), group.Name, group.ID)
		for _, m := range monitors {
			fmt.Printf("  %s\t%s\n", m.ID, m.Name)
		}
		return nil
	}

	if err := client.UpdateNotificationGroup(ctx, group); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Assigned %d monitors to notification group %q\n", len(monitors), group.Name)
	return nil
}

// findNotificationGroup looks up a notification group by ID.
func findNotificationGroup(ctx context.Context, client mackerel.Client, id string) (*mackerel.NotificationGroup, error) {
	groups, err := client.FetchNotificationGroups(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i], nil
		}
	}
	return nil, fmt.Errorf("notification group %q not found: %w", id, toolserrors.ErrNotFound)
}
