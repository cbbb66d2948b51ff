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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cohalz/tools/internal/apierror"
	toolserrors "github.com/cohalz/tools/internal/errors"
)

// RESTClient implements the Mackerel Client interface over the JSON REST API.
// It is configured with:
//   - Authentication via the X-Api-Key header
//   - Custom endpoint URL (for tests or proxies)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Optimized connection pooling for API performance
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	inspector  apierror.Inspector
}

// NewRESTClient creates a new Mackerel API client authenticated with the
// given API key against the given endpoint (e.g. https://api.mackerelio.com).
func NewRESTClient(apiKey, endpoint string) *RESTClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &apiKeyTransport{
			apiKey: apiKey,
			base:   transport,
		},
	}

	return &RESTClient{
		baseURL:    strings.TrimSuffix(endpoint, "/"),
		httpClient: httpClient,
		inspector:  apierror.NewInspector(),
	}
}

// FetchAlerts retrieves one page of the alert history, closed alerts
// included. The page is requested with withClosed=true so that resolved
// alerts appear in the history; opts.NextID continues from a previous page.
func (c *RESTClient) FetchAlerts(ctx context.Context, opts FetchOptions) (*AlertPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	params := url.Values{}
	params.Set("withClosed", "true")
	params.Set("limit", strconv.Itoa(limit))
	if opts.NextID != "" {
		params.Set("nextId", opts.NextID)
	}

	var body struct {
		Alerts []Alert `json:"alerts"`
		NextID string  `json:"nextId"`
	}
	if err := c.get(ctx, "/api/v0/alerts", params, &body); err != nil {
		return nil, err
	}

	return &AlertPage{Alerts: body.Alerts, NextID: body.NextID}, nil
}

// FetchMonitors retrieves all monitors of the organization.
func (c *RESTClient) FetchMonitors(ctx context.Context) ([]Monitor, error) {
	var body struct {
		Monitors []Monitor `json:"monitors"`
	}
	if err := c.get(ctx, "/api/v0/monitors", nil, &body); err != nil {
		return nil, err
	}
	return body.Monitors, nil
}

// FetchNotificationGroups retrieves all notification groups.
func (c *RESTClient) FetchNotificationGroups(ctx context.Context) ([]NotificationGroup, error) {
	var body struct {
		NotificationGroups []NotificationGroup `json:"notificationGroups"`
	}
	if err := c.get(ctx, "/api/v0/notification-groups", nil, &body); err != nil {
		return nil, err
	}
	return body.NotificationGroups, nil
}

// UpdateNotificationGroup replaces the notification group identified by
// group.ID with the given definition via PUT.
func (c *RESTClient) UpdateNotificationGroup(ctx context.Context, group *NotificationGroup) error {
	if group.ID == "" {
		return fmt.Errorf("notification group has no id: %w", toolserrors.ErrNotFound)
	}
	return c.put(ctx, "/api/v0/notification-groups/"+url.PathEscape(group.ID), group, nil)
}

// get issues a GET request and decodes the JSON response into out.
func (c *RESTClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

// put issues a PUT request with a JSON body and decodes the response into out
// when out is non-nil.
func (c *RESTClient) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *RESTClient) do(ctx context.Context, method, path string, params url.Values, in, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.inspector.IsNetworkError(err) {
			return fmt.Errorf("network error connecting to the Mackerel API. Please check your internet connection and try again: %w", toolserrors.ErrNetworkFailure)
		}
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(method, path, resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// statusError maps a non-2xx response to a domain error carrying the status
// and response body.
func (c *RESTClient) statusError(method, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("Mackerel API authentication failed (%s %s returned %d: %s). Please provide a valid key via --apikey flag or MACKEREL_APIKEY environment variable: %w",
			method, path, resp.StatusCode, detail, toolserrors.ErrInvalidToken)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s returned 404: %s: %w", method, path, detail, toolserrors.ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("Mackerel API rate limit exceeded (%s %s). Please wait before retrying: %w",
			method, path, toolserrors.ErrRateLimit)
	default:
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, detail)
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive
// memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// apiKeyTransport adds the Mackerel authentication header and safety limits
// to HTTP requests.
type apiKeyTransport struct {
	apiKey string
	base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("X-Api-Key", t.apiKey)
	req.Header.Set("User-Agent", "opstool")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024,
		}
	}

	return resp, nil
}
