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

// Package main implements the opstool command-line interface.
// The tool is a set of thin clients against the Mackerel monitoring API
// and GitHub's team-management API.
//
// Subcommands:
//   - alert-stats: fetch closed alert history, aggregate per-monitor MTTR
//     and availability over a time window, and report deltas against the
//     immediately preceding window of equal length
//   - assign-monitors: filter monitors by service scope and assign them to
//     a Mackerel notification group
//   - sync-maintainers: promote a configured set of logins to maintainer on
//     every team of a GitHub organization
//
// Usage:
//
//	opstool alert-stats --from 2025-06-01 --to 2025-06-08 --format text
//	opstool assign-monitors --service blog --notification-group-id 3yAYEDLXKL5
//	opstool sync-maintainers --org example --maintainer cohalz --dry-run
//
// Credentials come from MACKEREL_APIKEY and GITHUB_TOKEN unless overridden
// with the --apikey / --token flags.
//
// Exit codes:
//   - 0: Success
//   - 1: Configuration or request error
package main
