package mods

import "path/filepath"

// Downloadable is the resolved, fetchable description of one mod's chosen
// file. Platform clients fill everything except Name, Identifier, and
// Output; the resolver stamps Name and Identifier from the work item, and
// the upgrade orchestration sets Output just before the download phase.
type Downloadable struct {
	Name         string       // Display name of the mod this file belongs to
	Identifier   Identifier   // Identifier the file was resolved from
	Filename     string       // Final filename in the output directory
	URL          string       // Direct download URL
	Dependencies []Identifier // Required mods discovered from this file's metadata
	Length       int64        // Size in bytes, 0 if the platform doesn't report it
	Output       string       // Output directory, set by the orchestration layer
}

// OutputPath returns the full path the file will be written to.
func (d *Downloadable) OutputPath() string {
	return filepath.Join(d.Output, d.Filename)
}
