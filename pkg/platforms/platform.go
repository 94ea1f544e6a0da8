// Package platforms defines the platform capability interface and the
// shared HTTP machinery used by the per-platform clients.
//
// A platform takes a mod identifier plus compatibility filters and returns
// the single latest downloadable file, or a typed failure. Implementations
// live in the curseforge, modrinth, and github subpackages and share the
// cached, retrying [Client] defined here.
package platforms

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/thomhayward/ferium/pkg/mods"
)

// Sentinel errors returned by platform clients.
var (
	// ErrNotFound is returned when a project, version, or repository
	// doesn't exist on the platform.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, 5xx responses) that survived the retry budget.
	ErrNetwork = errors.New("network error")

	// ErrIncompatible is returned when a project exists but has no file
	// matching the active filters.
	ErrIncompatible = errors.New("no compatible file found")
)

// Platform resolves an identifier to its latest compatible downloadable.
//
// Resolve must be safe for concurrent use: the resolution engine calls it
// from many worker goroutines at once. The returned error is either one of
// the sentinels above (possibly wrapped with context), or a
// [errors.RateLimitedError] which aborts the entire resolution run.
type Platform interface {
	// Name returns the platform identifier (e.g., "modrinth").
	Name() string

	// Resolve fetches the latest file of the identified mod compatible
	// with the filters, along with its required dependencies.
	Resolve(ctx context.Context, id mods.Identifier, filters mods.Filters) (*mods.Downloadable, error)
}

const httpTimeout = 10 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout for
// platform API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
