// Package modrinth implements the Modrinth platform capability.
package modrinth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/thomhayward/ferium/pkg/cache"
	"github.com/thomhayward/ferium/pkg/mods"
	"github.com/thomhayward/ferium/pkg/platforms"
)

const defaultBaseURL = "https://api.modrinth.com/v2"

// userAgent identifies ferium per the Modrinth API policy.
const userAgent = "thomhayward/ferium (github.com/thomhayward/ferium)"

// Client provides access to the Modrinth API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*platforms.Client
	baseURL string
}

// NewClient creates a Modrinth client with the given cache backend.
func NewClient(backend cache.Cache, ttl time.Duration) *Client {
	headers := map[string]string{"User-Agent": userAgent}
	return &Client{
		Client:  platforms.NewClient("modrinth", backend, "modrinth:", ttl, headers),
		baseURL: defaultBaseURL,
	}
}

// Name returns "modrinth".
func (c *Client) Name() string { return "modrinth" }

// Resolve fetches the latest compatible version of a Modrinth project, or
// the exact pinned version for pinned identifiers. Pins bypass
// compatibility filtering: an explicit pin is taken as user intent.
func (c *Client) Resolve(ctx context.Context, id mods.Identifier, filters mods.Filters) (*mods.Downloadable, error) {
	switch id.Kind {
	case mods.KindModrinth:
		return c.resolveLatest(ctx, id.Project, filters)
	case mods.KindPinnedModrinth:
		return c.resolvePinned(ctx, id.Project, id.Version)
	default:
		return nil, fmt.Errorf("modrinth: cannot resolve %s identifier", id.Kind)
	}
}

func (c *Client) resolveLatest(ctx context.Context, project string, filters mods.Filters) (*mods.Downloadable, error) {
	var versions []versionResponse
	err := c.Cached(ctx, "versions:"+project, &versions, func() error {
		url := fmt.Sprintf("%s/project/%s/version", c.baseURL, project)
		return c.Get(ctx, url, &versions)
	})
	if err != nil {
		if errors.Is(err, platforms.ErrNotFound) {
			return nil, fmt.Errorf("%w: modrinth project %s", err, project)
		}
		return nil, err
	}

	var best *versionResponse
	for i := range versions {
		v := &versions[i]
		if !compatible(v, filters) {
			continue
		}
		if best == nil || v.DatePublished.After(best.DatePublished) {
			best = v
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: modrinth project %s", platforms.ErrIncompatible, project)
	}
	return downloadable(best)
}

func (c *Client) resolvePinned(ctx context.Context, project, version string) (*mods.Downloadable, error) {
	var v versionResponse
	err := c.Cached(ctx, "version:"+version, &v, func() error {
		url := fmt.Sprintf("%s/version/%s", c.baseURL, version)
		return c.Get(ctx, url, &v)
	})
	if err != nil {
		if errors.Is(err, platforms.ErrNotFound) {
			return nil, fmt.Errorf("%w: modrinth version %s of %s", err, version, project)
		}
		return nil, err
	}
	return downloadable(&v)
}

// compatible reports whether a version satisfies the filters.
func compatible(v *versionResponse, filters mods.Filters) bool {
	if filters.Loader != "" && !slices.ContainsFunc(v.Loaders, filters.Loader.Matches) {
		return false
	}
	if len(filters.GameVersions) > 0 {
		match := false
		for _, gv := range filters.GameVersions {
			if slices.Contains(v.GameVersions, gv) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

// downloadable converts a version into its primary file plus required
// dependencies.
func downloadable(v *versionResponse) (*mods.Downloadable, error) {
	if len(v.Files) == 0 {
		return nil, fmt.Errorf("%w: version %s has no files", platforms.ErrIncompatible, v.ID)
	}
	file := v.Files[0]
	for _, f := range v.Files {
		if f.Primary {
			file = f
			break
		}
	}

	var deps []mods.Identifier
	for _, d := range v.Dependencies {
		if d.DependencyType == "required" && d.ProjectID != "" {
			deps = append(deps, mods.Modrinth(d.ProjectID))
		}
	}

	return &mods.Downloadable{
		Filename:     file.Filename,
		URL:          file.URL,
		Length:       file.Size,
		Dependencies: deps,
	}, nil
}

type versionResponse struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	DatePublished time.Time      `json:"date_published"`
	GameVersions  []string       `json:"game_versions"`
	Loaders       []string       `json:"loaders"`
	Files         []fileResponse `json:"files"`
	Dependencies  []depResponse  `json:"dependencies"`
}

type fileResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
}

type depResponse struct {
	ProjectID      string `json:"project_id"`
	VersionID      string `json:"version_id"`
	DependencyType string `json:"dependency_type"`
}
