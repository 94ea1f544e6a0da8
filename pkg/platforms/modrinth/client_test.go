package modrinth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thomhayward/ferium/pkg/cache"
	"github.com/thomhayward/ferium/pkg/mods"
	"github.com/thomhayward/ferium/pkg/platforms"
)

const versionsJSON = `[
	{
		"id": "old",
		"project_id": "AANobbMI",
		"date_published": "2024-01-01T00:00:00Z",
		"game_versions": ["1.21.1"],
		"loaders": ["fabric"],
		"files": [{"url": "https://cdn.example/sodium-old.jar", "filename": "sodium-old.jar", "primary": true, "size": 100}],
		"dependencies": []
	},
	{
		"id": "new",
		"project_id": "AANobbMI",
		"date_published": "2024-06-01T00:00:00Z",
		"game_versions": ["1.21.1"],
		"loaders": ["fabric", "quilt"],
		"files": [
			{"url": "https://cdn.example/sodium-sources.jar", "filename": "sodium-sources.jar", "primary": false, "size": 10},
			{"url": "https://cdn.example/sodium-new.jar", "filename": "sodium-new.jar", "primary": true, "size": 200}
		],
		"dependencies": [
			{"project_id": "P7dR8mSH", "dependency_type": "required"},
			{"project_id": "optdep", "dependency_type": "optional"},
			{"project_id": "", "dependency_type": "required"}
		]
	},
	{
		"id": "forge-only",
		"project_id": "AANobbMI",
		"date_published": "2024-07-01T00:00:00Z",
		"game_versions": ["1.21.1"],
		"loaders": ["forge"],
		"files": [{"url": "https://cdn.example/sodium-forge.jar", "filename": "sodium-forge.jar", "primary": true, "size": 300}],
		"dependencies": []
	}
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(cache.NewNullCache(), time.Hour)
	c.baseURL = srv.URL
	return c
}

func TestResolveLatest(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/project/AANobbMI/version" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(versionsJSON))
	}))

	filters := mods.Filters{Loader: mods.LoaderFabric, GameVersions: []string{"1.21.1"}}
	dl, err := c.Resolve(context.Background(), mods.Modrinth("AANobbMI"), filters)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Newest fabric-compatible version wins; the newer forge-only version
	// must be filtered out, and the primary file selected.
	if dl.Filename != "sodium-new.jar" {
		t.Errorf("Filename = %q, want sodium-new.jar", dl.Filename)
	}
	if dl.Length != 200 {
		t.Errorf("Length = %d, want 200", dl.Length)
	}
	if len(dl.Dependencies) != 1 || dl.Dependencies[0] != mods.Modrinth("P7dR8mSH") {
		t.Errorf("Dependencies = %v, want required project only", dl.Dependencies)
	}
}

func TestResolveLatestNoFilters(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(versionsJSON))
	}))

	dl, err := c.Resolve(context.Background(), mods.Modrinth("AANobbMI"), mods.Filters{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if dl.Filename != "sodium-forge.jar" {
		t.Errorf("Filename = %q: without filters the newest version wins", dl.Filename)
	}
}

func TestResolveLatestIncompatible(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(versionsJSON))
	}))

	filters := mods.Filters{Loader: mods.LoaderNeoForge}
	_, err := c.Resolve(context.Background(), mods.Modrinth("AANobbMI"), filters)
	if !errors.Is(err, platforms.ErrIncompatible) {
		t.Errorf("Resolve() error = %v, want ErrIncompatible", err)
	}
}

func TestResolveLatestNotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Resolve(context.Background(), mods.Modrinth("nope"), mods.Filters{})
	if !errors.Is(err, platforms.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolvePinned(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version/xuWxRZPd" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"id": "xuWxRZPd",
			"project_id": "AANobbMI",
			"date_published": "2023-01-01T00:00:00Z",
			"game_versions": ["1.19.4"],
			"loaders": ["forge"],
			"files": [{"url": "https://cdn.example/sodium-pin.jar", "filename": "sodium-pin.jar", "primary": true, "size": 50}],
			"dependencies": []
		}`))
	}))

	// A pin resolves even when the version fails the profile filters.
	filters := mods.Filters{Loader: mods.LoaderFabric, GameVersions: []string{"1.21.1"}}
	dl, err := c.Resolve(context.Background(), mods.PinnedModrinth("AANobbMI", "xuWxRZPd"), filters)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if dl.Filename != "sodium-pin.jar" {
		t.Errorf("Filename = %q", dl.Filename)
	}
}

func TestResolveWrongKind(t *testing.T) {
	c := NewClient(cache.NewNullCache(), time.Hour)
	if _, err := c.Resolve(context.Background(), mods.CurseForge("1"), mods.Filters{}); err == nil {
		t.Error("resolving a curseforge identifier should fail")
	}
}

func TestResolveUsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(versionsJSON))
	}))
	defer srv.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(backend, time.Hour)
	c.baseURL = srv.URL

	for range 2 {
		if _, err := c.Resolve(context.Background(), mods.Modrinth("AANobbMI"), mods.Filters{}); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("API hit %d times, want 1", hits)
	}
}
