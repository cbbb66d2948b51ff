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

package mackerel

import "context"

// Client defines the interface for interacting with the Mackerel API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchAlerts retrieves one page of the alert history, closed alerts
	// included. Cursor-based pagination via opts.NextID walks the history
	// from newest to oldest.
	FetchAlerts(ctx context.Context, opts FetchOptions) (*AlertPage, error)

	// FetchMonitors retrieves all monitors of the organization.
	FetchMonitors(ctx context.Context) ([]Monitor, error)

	// FetchNotificationGroups retrieves all notification groups.
	FetchNotificationGroups(ctx context.Context) ([]NotificationGroup, error)

	// UpdateNotificationGroup replaces the notification group identified by
	// group.ID with the given definition.
	UpdateNotificationGroup(ctx context.Context, group *NotificationGroup) error
}
