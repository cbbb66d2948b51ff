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
	"fmt"
	"math"
	"os"
	"time"

	"github.com/cohalz/tools/internal/apierror"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a Mackerel client with automatic retry logic for rate
// limits and transient network errors using exponential backoff. Auth and
// not-found errors are never retried.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector apierror.Inspector
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: apierror.NewInspector(),
	}
}

// FetchAlerts implements the Client interface with retry logic
func (r *RetryClient) FetchAlerts(ctx context.Context, opts FetchOptions) (*AlertPage, error) {
	var page *AlertPage
	err := r.withRetry(ctx, func() error {
		var err error
		page, err = r.client.FetchAlerts(ctx, opts)
		return err
	})
	return page, err
}

// FetchMonitors implements the Client interface with retry logic
func (r *RetryClient) FetchMonitors(ctx context.Context) ([]Monitor, error) {
	var monitors []Monitor
	err := r.withRetry(ctx, func() error {
		var err error
		monitors, err = r.client.FetchMonitors(ctx)
		return err
	})
	return monitors, err
}

// FetchNotificationGroups implements the Client interface with retry logic
func (r *RetryClient) FetchNotificationGroups(ctx context.Context) ([]NotificationGroup, error) {
	var groups []NotificationGroup
	err := r.withRetry(ctx, func() error {
		var err error
		groups, err = r.client.FetchNotificationGroups(ctx)
		return err
	})
	return groups, err
}

// UpdateNotificationGroup implements the Client interface with retry logic
func (r *RetryClient) UpdateNotificationGroup(ctx context.Context, group *NotificationGroup) error {
	return r.withRetry(ctx, func() error {
		return r.client.UpdateNotificationGroup(ctx, group)
	})
}

// withRetry runs call until it succeeds, fails with a non-retryable error,
// or the retry budget is exhausted.
func (r *RetryClient) withRetry(ctx context.Context, call func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := call()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on non-retryable errors
		if !r.shouldRetry(err) {
			return err
		}

		// Don't retry if context is cancelled
		if ctx.Err() != nil {
			return ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)

		if r.inspector.IsRateLimitError(err) {
			fmt.Fprintf(os.Stderr, "\nRate limit hit. Waiting %v before retry (attempt %d/%d)...\n",
				backoff, attempt+1, r.config.MaxRetries)
		} else {
			fmt.Fprintf(os.Stderr, "\nNetwork error. Retrying in %v (attempt %d/%d)...\n",
				backoff, attempt+1, r.config.MaxRetries)
		}

		// Wait with context cancellation support
		select {
		case <-time.After(backoff):
			// Continue to next retry
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// shouldRetry determines if an error is retryable
func (r *RetryClient) shouldRetry(err error) bool {
	if r.inspector.IsRateLimitError(err) {
		return true
	}
	if r.inspector.IsNetworkError(err) {
		return true
	}
	return false
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// Add jitter (±10%) to prevent thundering herd
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
