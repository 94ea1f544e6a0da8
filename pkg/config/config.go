// Package config loads and saves the ferium configuration file.
//
// The file is TOML, by default at ~/.config/ferium/config.toml:
//
//	active_profile = 0
//
//	[[profiles]]
//	name = "main"
//	output_dir = "/home/me/.minecraft/mods"
//
//	[profiles.filters]
//	mod_loader = "fabric"
//	game_versions = ["1.21.1"]
//
//	[[profiles.mods]]
//	name = "Sodium"
//	platform = "modrinth"
//	project = "AANobbMI"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	ferrors "github.com/thomhayward/ferium/pkg/errors"
	"github.com/thomhayward/ferium/pkg/mods"
)

// Config is the root of the configuration file.
type Config struct {
	ActiveProfile int       `toml:"active_profile"`
	Profiles      []Profile `toml:"profiles"`
}

// Profile describes one managed mod directory.
type Profile struct {
	Name      string       `toml:"name"`
	OutputDir string       `toml:"output_dir"`
	Filters   mods.Filters `toml:"filters"`
	Mods      []ModEntry   `toml:"mods"`
}

// Loader returns the profile's mod loader filter.
func (p *Profile) Loader() mods.Loader {
	return p.Filters.Loader
}

// WorkItems converts the profile's mod entries into resolver work items.
func (p *Profile) WorkItems() ([]mods.Mod, error) {
	items := make([]mods.Mod, 0, len(p.Mods))
	for _, e := range p.Mods {
		m, err := e.Mod()
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// ModEntry is the on-disk form of one mod selection.
type ModEntry struct {
	Name            string       `toml:"name"`
	Platform        string       `toml:"platform"`      // curseforge | modrinth | github
	Project         string       `toml:"project"`       // project id, or owner/repo for github
	Pin             string       `toml:"pin,omitempty"` // modrinth version id for exact pins
	Filters         mods.Filters `toml:"filters,omitempty"`
	OverrideFilters bool         `toml:"override_filters,omitempty"`
}

// Mod converts the entry into a work item, validating the platform and
// identifier shape.
func (e ModEntry) Mod() (mods.Mod, error) {
	id, err := e.identifier()
	if err != nil {
		return mods.Mod{}, err
	}
	name := e.Name
	if name == "" {
		name = id.ShortName()
	}
	return mods.Mod{
		Name:            name,
		Identifier:      id,
		Filters:         e.Filters,
		OverrideFilters: e.OverrideFilters,
	}, nil
}

func (e ModEntry) identifier() (mods.Identifier, error) {
	switch e.Platform {
	case "curseforge":
		if e.Pin != "" {
			return mods.Identifier{}, ferrors.New(ferrors.ErrCodeInvalidIdentifier,
				"curseforge mod %q cannot be pinned", e.Name)
		}
		return mods.CurseForge(e.Project), nil
	case "modrinth":
		if e.Pin != "" {
			return mods.PinnedModrinth(e.Project, e.Pin), nil
		}
		return mods.Modrinth(e.Project), nil
	case "github":
		owner, repo, ok := strings.Cut(e.Project, "/")
		if !ok || owner == "" || repo == "" {
			return mods.Identifier{}, ferrors.New(ferrors.ErrCodeInvalidIdentifier,
				"github mod %q needs project in owner/repo form, got %q", e.Name, e.Project)
		}
		return mods.GitHub(owner, repo), nil
	default:
		return mods.Identifier{}, ferrors.New(ferrors.ErrCodeInvalidIdentifier,
			"mod %q has unknown platform %q", e.Name, e.Platform)
	}
}

// Active returns the active profile.
func (c *Config) Active() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidProfile, "no profiles configured")
	}
	if c.ActiveProfile < 0 || c.ActiveProfile >= len(c.Profiles) {
		return nil, ferrors.New(ferrors.ErrCodeInvalidProfile,
			"active_profile %d out of range (%d profiles)", c.ActiveProfile, len(c.Profiles))
	}
	return &c.Profiles[c.ActiveProfile], nil
}

// DefaultPath returns the default configuration file path,
// ~/.config/ferium/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ferium", "config.toml"), nil
}

// Load reads and validates the configuration file at path.
// An empty path selects [DefaultPath].
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	for i := range cfg.Profiles {
		p := &cfg.Profiles[i]
		if p.OutputDir == "" {
			return nil, ferrors.New(ferrors.ErrCodeInvalidConfig,
				"profile %q has no output_dir", p.Name)
		}
		if _, err := p.WorkItems(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed. An empty path selects [DefaultPath].
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
