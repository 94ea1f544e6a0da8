package config

import (
	"os"
	"path/filepath"
	"testing"

	ferrors "github.com/thomhayward/ferium/pkg/errors"
	"github.com/thomhayward/ferium/pkg/mods"
)

const sampleConfig = `active_profile = 0

[[profiles]]
name = "main"
output_dir = "/tmp/mods"

[profiles.filters]
mod_loader = "fabric"
game_versions = ["1.21.1"]

[[profiles.mods]]
name = "Sodium"
platform = "modrinth"
project = "AANobbMI"

[[profiles.mods]]
name = "Old Sodium"
platform = "modrinth"
project = "AANobbMI"
pin = "xuWxRZPd"

[[profiles.mods]]
name = "Jade"
platform = "curseforge"
project = "324717"

[[profiles.mods]]
name = "Iris"
platform = "github"
project = "IrisShaders/Iris"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	profile, err := cfg.Active()
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if profile.Name != "main" || profile.OutputDir != "/tmp/mods" {
		t.Errorf("profile = %+v", profile)
	}
	if profile.Loader() != mods.LoaderFabric {
		t.Errorf("Loader() = %q", profile.Loader())
	}

	items, err := profile.WorkItems()
	if err != nil {
		t.Fatalf("WorkItems() error = %v", err)
	}
	want := []mods.Identifier{
		mods.Modrinth("AANobbMI"),
		mods.PinnedModrinth("AANobbMI", "xuWxRZPd"),
		mods.CurseForge("324717"),
		mods.GitHub("IrisShaders", "Iris"),
	}
	if len(items) != len(want) {
		t.Fatalf("got %d work items, want %d", len(items), len(want))
	}
	for i, item := range items {
		if item.Identifier != want[i] {
			t.Errorf("items[%d].Identifier = %v, want %v", i, item.Identifier, want[i])
		}
	}
	if items[0].Name != "Sodium" {
		t.Errorf("items[0].Name = %q", items[0].Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "active_profile = [broken"))
	if !ferrors.Is(err, ferrors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadMissingOutputDir(t *testing.T) {
	_, err := Load(writeConfig(t, `[[profiles]]
name = "broken"
`))
	if !ferrors.Is(err, ferrors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestActiveOutOfRange(t *testing.T) {
	cfg := &Config{ActiveProfile: 2, Profiles: []Profile{{Name: "only"}}}
	if _, err := cfg.Active(); !ferrors.Is(err, ferrors.ErrCodeInvalidProfile) {
		t.Errorf("Active() error = %v, want INVALID_PROFILE", err)
	}

	cfg = &Config{}
	if _, err := cfg.Active(); !ferrors.Is(err, ferrors.ErrCodeInvalidProfile) {
		t.Errorf("Active() with no profiles error = %v, want INVALID_PROFILE", err)
	}
}

func TestModEntryMod(t *testing.T) {
	tests := []struct {
		name    string
		entry   ModEntry
		want    mods.Identifier
		wantErr bool
	}{
		{
			name:  "modrinth",
			entry: ModEntry{Platform: "modrinth", Project: "AANobbMI"},
			want:  mods.Modrinth("AANobbMI"),
		},
		{
			name:  "modrinth pinned",
			entry: ModEntry{Platform: "modrinth", Project: "AANobbMI", Pin: "v1"},
			want:  mods.PinnedModrinth("AANobbMI", "v1"),
		},
		{
			name:  "curseforge",
			entry: ModEntry{Platform: "curseforge", Project: "324717"},
			want:  mods.CurseForge("324717"),
		},
		{
			name:    "curseforge pinned",
			entry:   ModEntry{Platform: "curseforge", Project: "324717", Pin: "v1"},
			wantErr: true,
		},
		{
			name:  "github",
			entry: ModEntry{Platform: "github", Project: "owner/repo"},
			want:  mods.GitHub("owner", "repo"),
		},
		{
			name:    "github missing repo",
			entry:   ModEntry{Platform: "github", Project: "owner"},
			wantErr: true,
		},
		{
			name:    "github empty owner",
			entry:   ModEntry{Platform: "github", Project: "/repo"},
			wantErr: true,
		},
		{
			name:    "unknown platform",
			entry:   ModEntry{Platform: "gitlab", Project: "x"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.entry.Mod()
			if tt.wantErr {
				if !ferrors.Is(err, ferrors.ErrCodeInvalidIdentifier) {
					t.Errorf("Mod() error = %v, want INVALID_IDENTIFIER", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Mod() error = %v", err)
			}
			if m.Identifier != tt.want {
				t.Errorf("Identifier = %v, want %v", m.Identifier, tt.want)
			}
		})
	}
}

func TestModEntryDefaultName(t *testing.T) {
	m, err := ModEntry{Platform: "github", Project: "owner/repo"}.Mod()
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "owner/repo" {
		t.Errorf("Name = %q, want identifier short name", m.Name)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := &Config{
		ActiveProfile: 0,
		Profiles: []Profile{{
			Name:      "main",
			OutputDir: "/tmp/mods",
			Filters:   mods.Filters{Loader: mods.LoaderFabric, GameVersions: []string{"1.21.1"}},
			Mods: []ModEntry{
				{Name: "Sodium", Platform: "modrinth", Project: "AANobbMI"},
			},
		}},
	}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Profiles[0].Name != "main" {
		t.Errorf("round trip lost profile name: %+v", loaded.Profiles[0])
	}
	if loaded.Profiles[0].Filters.Loader != mods.LoaderFabric {
		t.Errorf("round trip lost filters: %+v", loaded.Profiles[0].Filters)
	}
	if len(loaded.Profiles[0].Mods) != 1 || loaded.Profiles[0].Mods[0].Project != "AANobbMI" {
		t.Errorf("round trip lost mods: %+v", loaded.Profiles[0].Mods)
	}
}
