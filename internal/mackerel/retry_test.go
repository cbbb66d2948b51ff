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

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	toolserrors "github.com/cohalz/tools/internal/errors"
)

func fastRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClientRecoversFromRateLimit(t *testing.T) {
	calls := 0
	mock := &MockClient{
		FetchAlertsFunc: func(ctx context.Context, opts FetchOptions) (*AlertPage, error) {
			calls++
			if calls < 3 {
				return nil, fmt.Errorf("upstream says no: %w", toolserrors.ErrRateLimit)
			}
			return &AlertPage{Alerts: []Alert{{ID: "a1"}}}, nil
		},
	}

	client := NewRetryClient(mock, fastRetryConfig(3))
	page, err := client.FetchAlerts(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("made %d calls, want 3", calls)
	}
	if len(page.Alerts) != 1 {
		t.Errorf("got %d alerts, want 1", len(page.Alerts))
	}
}

func TestRetryClientDoesNotRetryAuthErrors(t *testing.T) {
	mock := &MockClient{
		Err: fmt.Errorf("rejected: %w", toolserrors.ErrInvalidToken),
	}

	client := NewRetryClient(mock, fastRetryConfig(3))
	_, err := client.FetchMonitors(context.Background())
	if !errors.Is(err, toolserrors.ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
	if mock.MonitorCalls != 1 {
		t.Errorf("made %d calls, want 1", mock.MonitorCalls)
	}
}

func TestRetryClientExhaustsBudget(t *testing.T) {
	mock := &MockClient{
		Err: fmt.Errorf("flaky: %w", toolserrors.ErrNetworkFailure),
	}

	client := NewRetryClient(mock, fastRetryConfig(2))
	_, err := client.FetchNotificationGroups(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, toolserrors.ErrNetworkFailure) {
		t.Errorf("error = %v, want ErrNetworkFailure in chain", err)
	}
	// Initial attempt plus two retries.
	if mock.GroupCalls != 3 {
		t.Errorf("made %d calls, want 3", mock.GroupCalls)
	}
}

func TestRetryClientHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &MockClient{
		FetchAlertsFunc: func(ctx context.Context, opts FetchOptions) (*AlertPage, error) {
			cancel()
			return nil, fmt.Errorf("flaky: %w", toolserrors.ErrNetworkFailure)
		},
	}

	client := NewRetryClient(mock, fastRetryConfig(5))
	_, err := client.FetchAlerts(ctx, FetchOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
