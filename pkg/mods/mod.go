package mods

import "strings"

// Loader is a mod loader name as it appears in platform metadata.
type Loader string

// Known mod loaders.
const (
	LoaderFabric   Loader = "fabric"
	LoaderForge    Loader = "forge"
	LoaderNeoForge Loader = "neoforge"
	LoaderQuilt    Loader = "quilt"
)

// Loaders lists every known loader. The GitHub client uses this to detect
// loader names embedded in release asset filenames.
var Loaders = []Loader{LoaderFabric, LoaderForge, LoaderNeoForge, LoaderQuilt}

// Matches reports whether s names this loader, ignoring case.
func (l Loader) Matches(s string) bool {
	return strings.EqualFold(string(l), s)
}

// Filters express which files are acceptable when a platform picks the
// latest version of a mod. Empty fields mean "no constraint".
type Filters struct {
	Loader       Loader   `toml:"mod_loader,omitempty"`
	GameVersions []string `toml:"game_versions,omitempty"`
}

// Empty reports whether the filters constrain nothing.
func (f Filters) Empty() bool {
	return f.Loader == "" && len(f.GameVersions) == 0
}

// Mod is one pending resolution request: either a profile entry or a work
// item synthesized from a discovered dependency.
type Mod struct {
	Name       string
	Identifier Identifier

	// Filters to apply instead of the profile's when OverrideFilters is set.
	// Dependency work items always override with empty filters: filters
	// express user intent about direct selections, not transitive ones.
	Filters         Filters
	OverrideFilters bool
}

// Dependency synthesizes a work item for a dependency discovered during
// resolution.
func Dependency(id Identifier) Mod {
	return Mod{
		Name:            "Dependency: " + id.ShortName(),
		Identifier:      id,
		OverrideFilters: true,
	}
}
