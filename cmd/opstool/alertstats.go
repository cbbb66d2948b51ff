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
	"github.com/cohalz/tools/internal/mackerel"
	"github.com/cohalz/tools/internal/report"
	"github.com/cohalz/tools/internal/stats"
	"github.com/spf13/cobra"
)

// newAlertStatsCommand builds the alert-stats subcommand.
func newAlertStatsCommand() *cobra.Command {
	var (
		apiKey     string
		configPath string
		fromFlag   string
		toFlag     string
		formatFlag string
		digits     int
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "alert-stats",
		Short: "Report per-monitor alert count, MTTR, and availability with deltas",
		Long: `Fetch the closed-alert history from Mackerel, aggregate it per monitor
over the window [--from, --to), and report each value with its signed delta
against the immediately preceding window of equal length.

Timestamps accept RFC 3339 ("2025-06-01T00:00:00Z") or a bare date
("2025-06-01", midnight UTC). --to defaults to now and --from to one week
before --to.

Authentication is required via the Mackerel API key:
  - Use --apikey flag to provide the key directly
  - Or set the MACKEREL_APIKEY environment variable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlertStats(cmd.Context(), alertStatsOptions{
				apiKey:     apiKey,
				configPath: configPath,
				from:       fromFlag,
				to:         toFlag,
				format:     formatFlag,
				digits:     digits,
				outputFile: outputFile,
			})
		},
	}

	cmd.Flags().StringVar(&apiKey, "apikey", "", "Mackerel API key (overrides MACKEREL_APIKEY env var)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Start of the report window (inclusive)")
	cmd.Flags().StringVar(&toFlag, "to", "", "End of the report window (exclusive, default: now)")
	cmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&digits, "digits", -1, "Fraction digits for MTTR values (default from config)")
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")

	return cmd
}

type alertStatsOptions struct {
	apiKey     string
	configPath string
	from       string
	to         string
	format     string
	digits     int
	outputFile string
}

func runAlertStats(ctx context.Context, opts alertStatsOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	digits := opts.digits
	if digits < 0 {
		digits = cfg.Report.FractionDigits
	}

	now := time.Now().UTC()
	window, err := resolveWindow(opts.from, opts.to, now)
	if err != nil {
		return err
	}

	apiKey := resolveCredential(opts.apiKey, cfg.Mackerel.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("Mackerel API key not found. Set %s or use --apikey flag: %w",
			cfg.Mackerel.APIKeyEnv, toolserrors.ErrMissingCredentials)
	}

	client := newMackerelClient(apiKey, cfg)

	// The previous window's lower bound is how far back the history fetch
	// has to reach.
	bound := window.Previous().From
	alerts, err := fetchAlertsSince(ctx, client, bound, fetchConfig{
		pageSize: cfg.Paging.PageSize,
		delay:    time.Duration(cfg.Paging.DelaySeconds) * time.Second,
		maxPages: cfg.Paging.MaxPages,
	})
	if err != nil {
		return err
	}

	monitors, err := client.FetchMonitors(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(monitors))
	for _, m := range monitors {
		names[m.ID] = m.Name
	}

	reportable := stats.Reportable(alerts, names)
	cur, prev := stats.Partition(reportable, window)
	curStats := stats.Aggregate(cur, window, now, digits)
	prevStats := stats.Aggregate(prev, window.Previous(), now, digits)
	rows := stats.BuildReport(curStats, prevStats, names, digits)

	writer, err := newReportWriter(opts.outputFile)
	if err != nil {
		return err
	}
	defer writer.Close()

	switch format {
	case report.FormatJSON:
		err = writer.WriteJSON(rows)
	default:
		err = writer.WriteTable(rows, digits)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Reported %d monitors over [%s, %s)\n",
		writer.Count(), window.From.Format(time.RFC3339), window.To.Format(time.RFC3339))
	return nil
}

// newMackerelClient builds the Mackerel client, wrapped with retries when
// the config enables them.
func newMackerelClient(apiKey string, cfg *config.Config) mackerel.Client {
	var client mackerel.Client = mackerel.NewRESTClient(apiKey, cfg.Mackerel.APIEndpoint)
	if cfg.Retry.Enabled {
		retryCfg := mackerel.DefaultRetryConfig()
		if cfg.Retry.MaxRetries > 0 {
			retryCfg.MaxRetries = cfg.Retry.MaxRetries
		}
		client = mackerel.NewRetryClient(client, retryCfg)
	}
	return client
}

func newReportWriter(outputFile string) (*report.Writer, error) {
	if outputFile == "" {
		return report.NewWriter(os.Stdout), nil
	}
	writer, err := report.NewFileWriter(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return writer, nil
}

type fetchConfig struct {
	pageSize int
	delay    time.Duration
	maxPages int
}

// fetchAlertsSince pages through the alert history (closed alerts included,
// newest first) until the oldest alert fetched so far was opened at or before
// since, the API runs out of pages, or the page cap is hit. A fixed delay is
// inserted between page requests to respect rate limits.
func fetchAlertsSince(ctx context.Context, client mackerel.Client, since time.Time, cfg fetchConfig) ([]mackerel.Alert, error) {
	var all []mackerel.Alert
	cursor := ""

	for page := 1; ; page++ {
		if page > cfg.maxPages {
			fmt.Fprintf(os.Stderr, "\r\033[K")
			return nil, fmt.Errorf("alert history did not reach %s within %d pages: %w",
				since.Format(time.RFC3339), cfg.maxPages, toolserrors.ErrPageLimit)
		}

		p, err := client.FetchAlerts(ctx, mackerel.FetchOptions{Limit: cfg.pageSize, NextID: cursor})
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r\033[K")
			return nil, err
		}
		all = append(all, p.Alerts...)

		fmt.Fprintf(os.Stderr, "\rFetching alerts... page %d (%d alerts)", page, len(all))

		// Alerts come newest first, so the oldest alert fetched so far is
		// the last one appended.
		if len(all) > 0 && !all[len(all)-1].OpenedTime().After(since) {
			break
		}
		if p.NextID == "" {
			break
		}
		cursor = p.NextID

		select {
		case <-time.After(cfg.delay):
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "\r\033[K")
			return nil, ctx.Err()
		}
	}

	fmt.Fprintf(os.Stderr, "\r\033[K")
	return all, nil
}

// resolveWindow turns the --from/--to flags into a concrete window.
// --to defaults to now, --from to one week before --to.
func resolveWindow(fromFlag, toFlag string, now time.Time) (stats.Window, error) {
	to := now
	if toFlag != "" {
		t, err := parseTimeFlag(toFlag)
		if err != nil {
			return stats.Window{}, fmt.Errorf("invalid --to: %w", err)
		}
		to = t
	}

	from := to.Add(-7 * 24 * time.Hour)
	if fromFlag != "" {
		t, err := parseTimeFlag(fromFlag)
		if err != nil {
			return stats.Window{}, fmt.Errorf("invalid --from: %w", err)
		}
		from = t
	}

	if !from.Before(to) {
		return stats.Window{}, fmt.Errorf("--from (%s) must be before --to (%s)",
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	return stats.Window{From: from, To: to}, nil
}

// parseTimeFlag accepts RFC 3339 or a bare date (midnight UTC).
func parseTimeFlag(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 timestamp or date", s)
}

// resolveCredential returns the flag value when set, the environment variable
// otherwise.
func resolveCredential(flagValue, envName string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envName)
}
