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

// Package mackerel provides types and a client for the Mackerel monitoring
// REST API (https://mackerel.io/api-docs/).
package mackerel

import "time"

// Alert represents a Mackerel alert. Alerts are immutable once fetched;
// ClosedAt is zero while the alert is still open. Timestamps are epoch
// seconds, as the API returns them.
type Alert struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	MonitorID string `json:"monitorId"`
	Type      string `json:"type"`
	OpenedAt  int64  `json:"openedAt"`
	ClosedAt  int64  `json:"closedAt,omitempty"`
}

// OpenedTime returns the alert's open timestamp as a time.Time.
func (a Alert) OpenedTime() time.Time {
	return time.Unix(a.OpenedAt, 0).UTC()
}

// ClosedTime returns the alert's close timestamp and whether the alert has
// been closed.
func (a Alert) ClosedTime() (time.Time, bool) {
	if a.ClosedAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(a.ClosedAt, 0).UTC(), true
}

// AlertPage represents one page of the alert history. NextID is the opaque
// cursor for the next (older) page; it is empty on the last page.
type AlertPage struct {
	Alerts []Alert
	NextID string
}

// FetchOptions configures how alerts are fetched. Limit controls how many
// alerts to request per page (the API caps it at 100). NextID is the cursor
// from the previous page; empty fetches from the newest alert.
type FetchOptions struct {
	Limit  int
	NextID string
}

// Monitor represents a Mackerel monitor. Scopes associate a monitor with
// services in "service" or "service:role" form; a monitor without scopes
// fires for every service.
type Monitor struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Scopes        []string `json:"scopes,omitempty"`
	ExcludeScopes []string `json:"excludeScopes,omitempty"`
}

// NotificationGroup represents a Mackerel notification group: a named set of
// channels with optional monitor and service bindings.
type NotificationGroup struct {
	ID                        string                     `json:"id,omitempty"`
	Name                      string                     `json:"name"`
	NotificationLevel         string                     `json:"notificationLevel,omitempty"`
	ChildNotificationGroupIDs []string                   `json:"childNotificationGroupIds"`
	ChildChannelIDs           []string                   `json:"childChannelIds"`
	Monitors                  []NotificationGroupMonitor `json:"monitors,omitempty"`
	Services                  []NotificationGroupService `json:"services,omitempty"`
}

// NotificationGroupMonitor binds a monitor to a notification group.
// SkipDefault suppresses the default notification channels for that monitor.
type NotificationGroupMonitor struct {
	ID          string `json:"id"`
	SkipDefault bool   `json:"skipDefault"`
}

// NotificationGroupService binds a service to a notification group.
type NotificationGroupService struct {
	Name string `json:"name"`
}

// Default values for fetch operations
const (
	defaultPageSize = 100
)
