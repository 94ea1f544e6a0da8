// Package curseforge implements the CurseForge platform capability.
package curseforge

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thomhayward/ferium/pkg/cache"
	"github.com/thomhayward/ferium/pkg/mods"
	"github.com/thomhayward/ferium/pkg/platforms"
)

const defaultBaseURL = "https://api.curseforge.com/v1"

// requiredDependency is the CurseForge relation type for hard dependencies.
const requiredDependency = 3

// Client provides access to the CurseForge API.
// Requests require an API key (https://console.curseforge.com/).
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*platforms.Client
	baseURL string
}

// NewClient creates a CurseForge client with the given cache backend and
// API key.
func NewClient(backend cache.Cache, ttl time.Duration, apiKey string) *Client {
	headers := map[string]string{"x-api-key": apiKey}
	return &Client{
		Client:  platforms.NewClient("curseforge", backend, "curseforge:", ttl, headers),
		baseURL: defaultBaseURL,
	}
}

// Name returns "curseforge".
func (c *Client) Name() string { return "curseforge" }

// Resolve fetches the latest file of a CurseForge project compatible with
// the filters, plus its required dependencies.
func (c *Client) Resolve(ctx context.Context, id mods.Identifier, filters mods.Filters) (*mods.Downloadable, error) {
	if id.Kind != mods.KindCurseForge {
		return nil, fmt.Errorf("curseforge: cannot resolve %s identifier", id.Kind)
	}

	var data filesResponse
	err := c.Cached(ctx, "files:"+id.Project, &data, func() error {
		url := fmt.Sprintf("%s/mods/%s/files?pageSize=50", c.baseURL, id.Project)
		return c.Get(ctx, url, &data)
	})
	if err != nil {
		if errors.Is(err, platforms.ErrNotFound) {
			return nil, fmt.Errorf("%w: curseforge project %s", err, id.Project)
		}
		return nil, err
	}

	var best *fileResponse
	for i := range data.Data {
		f := &data.Data[i]
		if f.DownloadURL == "" || !compatible(f, filters) {
			continue
		}
		if best == nil || f.FileDate.After(best.FileDate) {
			best = f
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: curseforge project %s", platforms.ErrIncompatible, id.Project)
	}

	var deps []mods.Identifier
	for _, d := range best.Dependencies {
		if d.RelationType == requiredDependency {
			deps = append(deps, mods.CurseForge(strconv.Itoa(d.ModID)))
		}
	}

	return &mods.Downloadable{
		Filename:     best.FileName,
		URL:          best.DownloadURL,
		Length:       best.FileLength,
		Dependencies: deps,
	}, nil
}

// compatible reports whether a file satisfies the filters. CurseForge mixes
// loader names and game versions in one gameVersions list, so both checks
// scan the same field.
func compatible(f *fileResponse, filters mods.Filters) bool {
	if filters.Loader != "" {
		hasLoader := slices.ContainsFunc(f.GameVersions, func(v string) bool {
			return strings.EqualFold(v, string(filters.Loader))
		})
		if !hasLoader {
			return false
		}
	}
	if len(filters.GameVersions) > 0 {
		match := false
		for _, gv := range filters.GameVersions {
			if slices.Contains(f.GameVersions, gv) {
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

type filesResponse struct {
	Data []fileResponse `json:"data"`
}

type fileResponse struct {
	ID           int           `json:"id"`
	FileName     string        `json:"fileName"`
	FileDate     time.Time     `json:"fileDate"`
	FileLength   int64         `json:"fileLength"`
	DownloadURL  string        `json:"downloadUrl"`
	GameVersions []string      `json:"gameVersions"`
	Dependencies []depResponse `json:"dependencies"`
}

type depResponse struct {
	ModID        int `json:"modId"`
	RelationType int `json:"relationType"`
}
