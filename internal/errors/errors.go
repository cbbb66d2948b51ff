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

// Package errors defines sentinel errors for consistent error handling across
// the application. All of them map to exit code 1; they exist so callers can
// pick actionable messages and decide what is retryable.
package errors

import "errors"

var (
	// ErrMissingCredentials indicates a required API credential was not
	// provided via flag or environment variable.
	ErrMissingCredentials = errors.New("missing api credentials")

	// ErrInvalidToken indicates the upstream API rejected our credentials.
	ErrInvalidToken = errors.New("invalid api token")

	// ErrNotFound indicates the requested resource does not exist or is not
	// accessible (monitor, notification group, organization, team).
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimit indicates an upstream API rate limit has been exceeded.
	ErrRateLimit = errors.New("api rate limit exceeded")

	// ErrNetworkFailure indicates a network connection problem.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrPageLimit indicates a paginated fetch hit the configured page cap
	// before reaching its lower time bound.
	ErrPageLimit = errors.New("pagination page limit exceeded")
)
