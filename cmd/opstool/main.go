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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "opstool",
		Short: "Operational helpers for Mackerel monitors and GitHub teams",
		Long: `opstool bundles a few thin clients against the Mackerel monitoring
API and GitHub's team-management API: alert statistics with window-over-window
deltas, notification-group assignment for service-scoped monitors, and team
maintainer synchronization.`,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newAlertStatsCommand())
	rootCmd.AddCommand(newAssignMonitorsCommand())
	rootCmd.AddCommand(newSyncMaintainersCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
