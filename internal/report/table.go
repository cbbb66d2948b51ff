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

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cohalz/tools/internal/stats"
)

// RenderTable writes the rows as a wiki-style pipe table: one line per
// monitor with the current value and the signed delta versus the previous
// window for count, MTTR, and availability.
func RenderTable(w io.Writer, rows []stats.MonitorReport, digits int) error {
	if _, err := fmt.Fprintln(w, "|monitor|count|mttr (min)|availability (%)|"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "|-|-|-|-|"); err != nil {
		return err
	}

	for _, row := range rows {
		_, err := fmt.Fprintf(w, "|%s|%d (%s)|%s (%s)|%s (%s)|\n",
			row.Name,
			row.Count, signedInt(row.CountDelta),
			formatFloat(row.MTTR, digits), signedFloat(row.MTTRDelta, digits),
			formatFloat(row.Availability, 2), signedFloat(row.AvailabilityDelta, 2),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes the rows as indented JSON.
func RenderJSON(w io.Writer, rows []stats.MonitorReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// signedInt formats an int delta with an explicit sign ("+1", "-2", "+0").
func signedInt(v int) string {
	if v < 0 {
		return strconv.Itoa(v)
	}
	return "+" + strconv.Itoa(v)
}

// signedFloat formats a float delta with an explicit sign.
func signedFloat(v float64, digits int) string {
	if v < 0 {
		return formatFloat(v, digits)
	}
	return "+" + formatFloat(v, digits)
}

func formatFloat(v float64, digits int) string {
	return strconv.FormatFloat(v, 'f', digits, 64)
}
