// Package apierror classifies errors returned by the upstream Mackerel and
// GitHub APIs into broad categories (auth, not found, rate limit, network).
// Classification is by sentinel match where the client attached one, and by
// error text otherwise.
package apierror
