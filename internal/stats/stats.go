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

// Package stats turns a flat alert history into per-monitor statistics over
// a pair of adjacent, equal-length time windows.
//
// For each monitor and window the package computes the alert count, the mean
// time to repair (MTTR, minutes an alert stayed open), the approximate
// downtime (count x MTTR), and the availability derived from that downtime.
// The report pairs every monitor's current-window values with signed deltas
// against the previous window.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/cohalz/tools/internal/mackerel"
)

// Window is a half-open time interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Minutes returns the window length in minutes.
func (w Window) Minutes() float64 {
	return w.To.Sub(w.From).Minutes()
}

// Previous returns the immediately preceding window of equal length:
// [2*From-To, From).
func (w Window) Previous() Window {
	return Window{
		From: w.From.Add(-w.To.Sub(w.From)),
		To:   w.From,
	}
}

// MonitorStats holds the derived statistics for one monitor in one window.
type MonitorStats struct {
	MonitorID    string
	Count        int
	MTTR         float64
	Downtime     float64
	Availability float64
}

// MonitorReport is one report row: the current-window values for a monitor
// with signed deltas against the previous window. Availability is carried at
// two decimal places; MTTR at the configured number of fraction digits.
type MonitorReport struct {
	MonitorID         string  `json:"monitorId"`
	Name              string  `json:"name"`
	Count             int     `json:"count"`
	CountDelta        int     `json:"countDelta"`
	MTTR              float64 `json:"mttr"`
	MTTRDelta         float64 `json:"mttrDelta"`
	Availability      float64 `json:"availability"`
	AvailabilityDelta float64 `json:"availabilityDelta"`
}

// Reportable drops alerts that cannot appear in a report: alerts of type
// "check" and alerts whose monitor ID does not resolve to a name (deleted
// monitors). The API cannot return a display name for either.
func Reportable(alerts []mackerel.Alert, names map[string]string) []mackerel.Alert {
	kept := make([]mackerel.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Type == "check" {
			continue
		}
		if _, ok := names[a.MonitorID]; !ok {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// Partition splits alerts by open timestamp into the current window and the
// immediately preceding window of equal length. Every alert opened inside
// [current.Previous().From, current.To) lands in exactly one of the two
// groups; alerts outside that range are dropped.
func Partition(alerts []mackerel.Alert, current Window) (cur, prev []mackerel.Alert) {
	previous := current.Previous()
	for _, a := range alerts {
		opened := a.OpenedTime()
		switch {
		case current.Contains(opened):
			cur = append(cur, a)
		case previous.Contains(opened):
			prev = append(prev, a)
		}
	}
	return cur, prev
}

// Aggregate groups the window's alerts by monitor ID and computes per-monitor
// statistics. An alert with no close timestamp counts as still open at now.
// MTTR is rounded to digits fraction digits; availability to two.
func Aggregate(alerts []mackerel.Alert, w Window, now time.Time, digits int) map[string]MonitorStats {
	byMonitor := make(map[string][]mackerel.Alert)
	for _, a := range alerts {
		byMonitor[a.MonitorID] = append(byMonitor[a.MonitorID], a)
	}

	result := make(map[string]MonitorStats, len(byMonitor))
	for id, group := range byMonitor {
		mttr := MTTR(group, now, digits)
		downtime := float64(len(group)) * mttr
		result[id] = MonitorStats{
			MonitorID:    id,
			Count:        len(group),
			MTTR:         mttr,
			Downtime:     downtime,
			Availability: Availability(w, downtime),
		}
	}
	return result
}

// MTTR returns the mean time to repair in minutes for the given alerts,
// rounded to digits fraction digits. An alert that is still open counts as
// repaired at now. The MTTR of an empty alert list is 0.
func MTTR(alerts []mackerel.Alert, now time.Time, digits int) float64 {
	if len(alerts) == 0 {
		return 0
	}

	var total float64
	for _, a := range alerts {
		closed, ok := a.ClosedTime()
		if !ok {
			closed = now
		}
		total += closed.Sub(a.OpenedTime()).Minutes()
	}
	return Round(total/float64(len(alerts)), digits)
}

// Availability returns 100 * (windowMinutes - downtime) / windowMinutes,
// rounded to two decimal places. Zero downtime yields exactly 100.
func Availability(w Window, downtime float64) float64 {
	minutes := w.Minutes()
	if minutes <= 0 {
		return 0
	}
	return Round(100*(minutes-downtime)/minutes, 2)
}

// Round rounds v to the given number of fraction digits.
func Round(v float64, digits int) float64 {
	shift := math.Pow(10, float64(digits))
	return math.Round(v*shift) / shift
}

// BuildReport pairs every monitor seen in either window with its
// current-window statistics and the signed deltas against the previous
// window. Monitors missing from a window contribute zero-valued stats except
// for availability, which is 100 when nothing was down. MTTR deltas are
// rounded to digits fraction digits. Rows are sorted by current count
// descending, then by name.
func BuildReport(cur, prev map[string]MonitorStats, names map[string]string, digits int) []MonitorReport {
	ids := make(map[string]struct{}, len(cur)+len(prev))
	for id := range cur {
		ids[id] = struct{}{}
	}
	for id := range prev {
		ids[id] = struct{}{}
	}

	rows := make([]MonitorReport, 0, len(ids))
	for id := range ids {
		c, inCur := cur[id]
		p, inPrev := prev[id]
		if !inCur {
			c = MonitorStats{MonitorID: id, Availability: 100}
		}
		if !inPrev {
			p = MonitorStats{MonitorID: id, Availability: 100}
		}
		rows = append(rows, MonitorReport{
			MonitorID:         id,
			Name:              names[id],
			Count:             c.Count,
			CountDelta:        c.Count - p.Count,
			MTTR:              c.MTTR,
			MTTRDelta:         Round(c.MTTR-p.MTTR, digits),
			Availability:      c.Availability,
			AvailabilityDelta: Round(c.Availability-p.Availability, 2),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
