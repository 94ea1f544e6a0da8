// Package download reconciles the output directory against a resolved mod
// set and performs the actual file transfers.
//
// Reconciliation ([Clean]) never deletes anything: files that are no longer
// part of the resolved set are quarantined into the .old subdirectory.
// Files the user placed under the user subdirectory survive reconciliation
// and are copied into the output root during [Download].
package download

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thomhayward/ferium/pkg/mods"
)

const (
	// UserDir is the reserved subdirectory for manually placed mod files.
	UserDir = "user"

	// OldDir is the quarantine subdirectory for files removed during
	// reconciliation.
	OldDir = ".old"
)

// Install is one manual-install candidate: a file found under the user
// subdirectory that must be copied into the output root.
type Install struct {
	Name string // Filename it will have in the output root
	Path string // Current location under user/
}

// ScanUserDir gathers manual-install candidates: .jar files directly under
// <outputDir>/user. A missing user directory yields no candidates and no
// error.
func ScanUserDir(outputDir string) ([]Install, error) {
	dir := filepath.Join(outputDir, UserDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var installs []Install
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(filepath.Ext(name), ".jar") {
			installs = append(installs, Install{Name: name, Path: filepath.Join(dir, name)})
		}
	}
	return installs, nil
}

// Clean reconciles the output directory with the resolved set. Files
// already present under their final name are dropped from the download and
// install lists (no re-fetch); anything else in the output root is moved to
// the .old quarantine. Subdirectories, including user/ and .old/ itself,
// are left alone.
func Clean(outputDir string, toDownload *[]*mods.Downloadable, toInstall *[]Install) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		if i := slices.IndexFunc(*toDownload, func(d *mods.Downloadable) bool {
			return d.Filename == name
		}); i >= 0 {
			*toDownload = slices.Delete(*toDownload, i, i+1)
			continue
		}
		if i := slices.IndexFunc(*toInstall, func(in Install) bool {
			return in.Name == name
		}); i >= 0 {
			*toInstall = slices.Delete(*toInstall, i, i+1)
			continue
		}

		old := filepath.Join(outputDir, OldDir)
		if err := os.MkdirAll(old, 0o755); err != nil {
			return err
		}
		if err := os.Rename(filepath.Join(outputDir, name), filepath.Join(old, name)); err != nil {
			return err
		}
	}
	return nil
}
