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

package testutil

import (
	"fmt"
	"time"

	"github.com/cohalz/tools/internal/mackerel"
)

// AlertBuilder provides a fluent API for creating test alerts
type AlertBuilder struct {
	id        string
	status    string
	monitorID string
	alertType string
	openedAt  time.Time
	closedAt  time.Time
}

// NewAlertBuilder creates a new alert builder with defaults: a closed host
// metric alert that lasted thirty minutes.
func NewAlertBuilder(id string) *AlertBuilder {
	opened := time.Now().UTC().Add(-time.Hour)
	return &AlertBuilder{
		id:        id,
		status:    "OK",
		monitorID: "monitor-1",
		alertType: "host",
		openedAt:  opened,
		closedAt:  opened.Add(30 * time.Minute),
	}
}

// WithMonitor sets the monitor the alert belongs to
func (b *AlertBuilder) WithMonitor(monitorID string) *AlertBuilder {
	b.monitorID = monitorID
	return b
}

// WithType sets the alert type (host, service, check, ...)
func (b *AlertBuilder) WithType(alertType string) *AlertBuilder {
	b.alertType = alertType
	return b
}

// OpenedAt sets when the alert fired
func (b *AlertBuilder) OpenedAt(t time.Time) *AlertBuilder {
	b.openedAt = t
	return b
}

// ClosedAt sets when the alert resolved
func (b *AlertBuilder) ClosedAt(t time.Time) *AlertBuilder {
	b.status = "OK"
	b.closedAt = t
	return b
}

// Open marks the alert as still firing
func (b *AlertBuilder) Open() *AlertBuilder {
	b.status = "CRITICAL"
	b.closedAt = time.Time{}
	return b
}

// Build creates the alert
func (b *AlertBuilder) Build() mackerel.Alert {
	a := mackerel.Alert{
		ID:        b.id,
		Status:    b.status,
		MonitorID: b.monitorID,
		Type:      b.alertType,
		OpenedAt:  b.openedAt.Unix(),
	}
	if !b.closedAt.IsZero() {
		a.ClosedAt = b.closedAt.Unix()
	}
	return a
}

// GenerateAlerts creates count closed alerts for one monitor, evenly spaced
// going back in time from start, each lasting the given duration. Alerts come
// out newest first, matching the API's ordering.
func GenerateAlerts(count int, monitorID string, start time.Time, spacing, duration time.Duration) []mackerel.Alert {
	alerts := make([]mackerel.Alert, 0, count)
	for i := 0; i < count; i++ {
		opened := start.Add(-time.Duration(i) * spacing)
		alerts = append(alerts, NewAlertBuilder(fmt.Sprintf("%s-alert-%d", monitorID, i)).
			WithMonitor(monitorID).
			OpenedAt(opened).
			ClosedAt(opened.Add(duration)).
			Build())
	}
	return alerts
}
