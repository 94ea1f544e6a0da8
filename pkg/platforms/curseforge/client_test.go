package curseforge

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

const filesJSON = `{"data": [
	{
		"id": 1,
		"fileName": "jade-old.jar",
		"fileDate": "2024-01-01T00:00:00Z",
		"fileLength": 100,
		"downloadUrl": "https://cdn.example/jade-old.jar",
		"gameVersions": ["Fabric", "1.21.1"],
		"dependencies": []
	},
	{
		"id": 2,
		"fileName": "jade-new.jar",
		"fileDate": "2024-06-01T00:00:00Z",
		"fileLength": 200,
		"downloadUrl": "https://cdn.example/jade-new.jar",
		"gameVersions": ["Fabric", "1.21.1"],
		"dependencies": [
			{"modId": 306612, "relationType": 3},
			{"modId": 999999, "relationType": 2}
		]
	},
	{
		"id": 3,
		"fileName": "jade-unavailable.jar",
		"fileDate": "2024-07-01T00:00:00Z",
		"fileLength": 300,
		"downloadUrl": "",
		"gameVersions": ["Fabric", "1.21.1"],
		"dependencies": []
	},
	{
		"id": 4,
		"fileName": "jade-forge.jar",
		"fileDate": "2024-08-01T00:00:00Z",
		"fileLength": 400,
		"downloadUrl": "https://cdn.example/jade-forge.jar",
		"gameVersions": ["Forge", "1.21.1"],
		"dependencies": []
	}
]}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(cache.NewNullCache(), time.Hour, "test-key")
	c.baseURL = srv.URL
	return c
}

func TestResolve(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if r.URL.Path != "/mods/324717/files" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(filesJSON))
	}))

	filters := mods.Filters{Loader: mods.LoaderFabric, GameVersions: []string{"1.21.1"}}
	dl, err := c.Resolve(context.Background(), mods.CurseForge("324717"), filters)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Newest fabric file with a download URL wins: the forge file and the
	// distribution-blocked file are skipped despite being newer.
	if dl.Filename != "jade-new.jar" {
		t.Errorf("Filename = %q, want jade-new.jar", dl.Filename)
	}
	if dl.Length != 200 {
		t.Errorf("Length = %d, want 200", dl.Length)
	}
	if len(dl.Dependencies) != 1 || dl.Dependencies[0] != mods.CurseForge("306612") {
		t.Errorf("Dependencies = %v, want required relation only", dl.Dependencies)
	}
}

func TestResolveIncompatible(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(filesJSON))
	}))

	filters := mods.Filters{GameVersions: []string{"1.16.5"}}
	_, err := c.Resolve(context.Background(), mods.CurseForge("324717"), filters)
	if !errors.Is(err, platforms.ErrIncompatible) {
		t.Errorf("Resolve() error = %v, want ErrIncompatible", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Resolve(context.Background(), mods.CurseForge("0"), mods.Filters{})
	if !errors.Is(err, platforms.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveWrongKind(t *testing.T) {
	c := NewClient(cache.NewNullCache(), time.Hour, "key")
	if _, err := c.Resolve(context.Background(), mods.Modrinth("a"), mods.Filters{}); err == nil {
		t.Error("resolving a modrinth identifier should fail")
	}
}

func TestCompatibleLoaderCase(t *testing.T) {
	// The API reports loaders with leading capitals ("Fabric").
	f := &fileResponse{GameVersions: []string{"Fabric", "1.21.1"}}
	if !compatible(f, mods.Filters{Loader: mods.LoaderFabric}) {
		t.Error("loader match must ignore case")
	}
	if compatible(f, mods.Filters{Loader: mods.LoaderQuilt}) {
		t.Error("mismatched loader must be rejected")
	}
}
