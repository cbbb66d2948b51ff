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

// MockClient is a mock implementation of the Mackerel Client interface for
// testing. Each method returns the canned data unless the corresponding
// function field is set.
type MockClient struct {
	// Canned responses
	AlertPages         []*AlertPage
	Monitors           []Monitor
	NotificationGroups []NotificationGroup

	// Error to return from every call when set
	Err error

	// Optional per-method overrides
	FetchAlertsFunc             func(ctx context.Context, opts FetchOptions) (*AlertPage, error)
	UpdateNotificationGroupFunc func(ctx context.Context, group *NotificationGroup) error

	// Track calls for verification
	AlertCalls    int
	MonitorCalls  int
	GroupCalls    int
	UpdateCalls   int
	UpdatedGroups []*NotificationGroup
	LastOpts      FetchOptions
}

// FetchAlerts returns the next canned alert page. Once the canned pages are
// exhausted it keeps returning the last one.
func (m *MockClient) FetchAlerts(ctx context.Context, opts FetchOptions) (*AlertPage, error) {
	m.LastOpts = opts
	call := m.AlertCalls
	m.AlertCalls++

	if m.FetchAlertsFunc != nil {
		return m.FetchAlertsFunc(ctx, opts)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.AlertPages) == 0 {
		return &AlertPage{}, nil
	}
	if call >= len(m.AlertPages) {
		call = len(m.AlertPages) - 1
	}
	return m.AlertPages[call], nil
}

// FetchMonitors returns the canned monitors.
func (m *MockClient) FetchMonitors(ctx context.Context) ([]Monitor, error) {
	m.MonitorCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Monitors, nil
}

// FetchNotificationGroups returns the canned notification groups.
func (m *MockClient) FetchNotificationGroups(ctx context.Context) ([]NotificationGroup, error) {
	m.GroupCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.NotificationGroups, nil
}

// UpdateNotificationGroup records the update.
func (m *MockClient) UpdateNotificationGroup(ctx context.Context, group *NotificationGroup) error {
	m.UpdateCalls++
	m.UpdatedGroups = append(m.UpdatedGroups, group)
	if m.UpdateNotificationGroupFunc != nil {
		return m.UpdateNotificationGroupFunc(ctx, group)
	}
	return m.Err
}
