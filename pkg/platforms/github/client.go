// Package github implements the GitHub Releases platform capability.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thomhayward/ferium/pkg/cache"
	"github.com/thomhayward/ferium/pkg/mods"
	"github.com/thomhayward/ferium/pkg/platforms"
)

const defaultBaseURL = "https://api.github.com"

// Client provides access to GitHub release assets.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*platforms.Client
	baseURL string
}

// NewClient creates a GitHub client with optional authentication.
// Pass an empty token for unauthenticated requests (lower rate limits).
func NewClient(backend cache.Cache, ttl time.Duration, token string) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  platforms.NewClient("github", backend, "github:", ttl, headers),
		baseURL: defaultBaseURL,
	}
}

// Name returns "github".
func (c *Client) Name() string { return "github" }

// Resolve picks the newest release asset that looks like a usable mod jar
// for the given filters. GitHub releases carry no dependency metadata, so
// the result never reports dependencies.
func (c *Client) Resolve(ctx context.Context, id mods.Identifier, filters mods.Filters) (*mods.Downloadable, error) {
	if id.Kind != mods.KindGitHub {
		return nil, fmt.Errorf("github: cannot resolve %s identifier", id.Kind)
	}

	var releases []releaseResponse
	err := c.Cached(ctx, "releases:"+id.Owner+"/"+id.Repo, &releases, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=10", c.baseURL, id.Owner, id.Repo)
		return c.Get(ctx, url, &releases)
	})
	if err != nil {
		if errors.Is(err, platforms.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, id.Owner, id.Repo)
		}
		return nil, err
	}

	for _, rel := range releases {
		if rel.Draft || rel.Prerelease {
			continue
		}
		for _, asset := range rel.Assets {
			if usableAsset(asset.Name, filters) {
				return &mods.Downloadable{
					Filename: asset.Name,
					URL:      asset.BrowserDownloadURL,
					Length:   asset.Size,
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: github repo %s/%s", platforms.ErrIncompatible, id.Owner, id.Repo)
}

// usableAsset reports whether a release asset is a mod jar acceptable under
// the filters. Source and dev jars are skipped. When a loader filter is set
// and the asset name mentions any loader, one of the mentions must match;
// assets that name no loader at all are accepted.
func usableAsset(name string, filters mods.Filters) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".jar") {
		return false
	}
	if strings.Contains(lower, "sources") || strings.Contains(lower, "-dev") {
		return false
	}

	if filters.Loader != "" {
		mentioned := false
		for _, l := range mods.Loaders {
			if strings.Contains(lower, string(l)) {
				mentioned = true
				break
			}
		}
		if mentioned && !strings.Contains(lower, string(filters.Loader)) {
			return false
		}
	}
	return true
}

type releaseResponse struct {
	TagName     string          `json:"tag_name"`
	Draft       bool            `json:"draft"`
	Prerelease  bool            `json:"prerelease"`
	PublishedAt time.Time       `json:"published_at"`
	Assets      []assetResponse `json:"assets"`
}

type assetResponse struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}
