// Package mods defines the value types shared across the resolution
// pipeline: mod identifiers and their dedup rules, work items, compatibility
// filters, and resolved downloadables.
package mods

import "fmt"

// Kind discriminates the closed set of identifier variants.
type Kind int

const (
	// KindCurseForge is a latest-version lookup of a CurseForge project.
	KindCurseForge Kind = iota
	// KindModrinth is a latest-version lookup of a Modrinth project.
	KindModrinth
	// KindPinnedModrinth is an exact, version-pinned Modrinth lookup.
	KindPinnedModrinth
	// KindGitHub is a latest-release lookup of a GitHub repository.
	KindGitHub
)

// String returns the platform name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCurseForge:
		return "curseforge"
	case KindModrinth, KindPinnedModrinth:
		return "modrinth"
	case KindGitHub:
		return "github"
	}
	return "unknown"
}

// Identifier names a mod on a specific platform, possibly pinned to an
// exact version. Identifiers are comparable values; structural equality is
// plain ==, and [Identifier.SameProject] adds the cross-variant rule for
// Modrinth pins.
type Identifier struct {
	Kind    Kind
	Project string // CurseForge numeric id or Modrinth project id
	Version string // Modrinth version id, set only for KindPinnedModrinth
	Owner   string // GitHub repository owner, set only for KindGitHub
	Repo    string // GitHub repository name, set only for KindGitHub
}

// CurseForge creates an identifier for a CurseForge project id.
func CurseForge(project string) Identifier {
	return Identifier{Kind: KindCurseForge, Project: project}
}

// Modrinth creates an identifier for a Modrinth project id.
func Modrinth(project string) Identifier {
	return Identifier{Kind: KindModrinth, Project: project}
}

// PinnedModrinth creates an identifier for an exact Modrinth version.
func PinnedModrinth(project, version string) Identifier {
	return Identifier{Kind: KindPinnedModrinth, Project: project, Version: version}
}

// GitHub creates an identifier for a GitHub repository.
func GitHub(owner, repo string) Identifier {
	return Identifier{Kind: KindGitHub, Owner: owner, Repo: repo}
}

// String returns a human-readable form, e.g. "modrinth:AANobbMI".
func (id Identifier) String() string {
	switch id.Kind {
	case KindPinnedModrinth:
		return fmt.Sprintf("modrinth:%s@%s", id.Project, id.Version)
	case KindGitHub:
		return fmt.Sprintf("github:%s/%s", id.Owner, id.Repo)
	default:
		return fmt.Sprintf("%s:%s", id.Kind, id.Project)
	}
}

// ShortName returns the bare id used when synthesizing display names for
// discovered dependencies ("Dependency: <id>").
func (id Identifier) ShortName() string {
	if id.Kind == KindGitHub {
		return id.Owner + "/" + id.Repo
	}
	return id.Project
}

// PinLabel describes which version an identifier asks for, for the
// multiple-versions warning. Unpinned identifiers are "latest".
func (id Identifier) PinLabel() string {
	if id.Kind == KindPinnedModrinth {
		return id.Version
	}
	return "latest"
}

// modrinthFamily reports whether the identifier targets Modrinth in either
// pinned or unpinned form.
func (id Identifier) modrinthFamily() bool {
	return id.Kind == KindModrinth || id.Kind == KindPinnedModrinth
}

// SameProject reports whether two identifiers name the same underlying mod.
// Structurally equal identifiers always do; beyond that, any two Modrinth
// identifiers sharing a project id are the same mod regardless of pin state.
// All other cross-variant comparisons are distinct.
func (id Identifier) SameProject(other Identifier) bool {
	if id == other {
		return true
	}
	if id.modrinthFamily() && other.modrinthFamily() {
		return id.Project == other.Project
	}
	return false
}
