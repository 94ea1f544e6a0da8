// Package cli implements the ferium command-line interface.
//
// The main commands are:
//   - upgrade: resolve the active profile and synchronize the mods directory
//   - graph: render the resolved dependency graph as DOT or SVG
//   - cache: manage the HTTP response cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/thomhayward/ferium/pkg/buildinfo"
	"github.com/thomhayward/ferium/pkg/cache"
	"github.com/thomhayward/ferium/pkg/platforms/curseforge"
	"github.com/thomhayward/ferium/pkg/platforms/github"
	"github.com/thomhayward/ferium/pkg/platforms/modrinth"
	"github.com/thomhayward/ferium/pkg/upgrade"
)

// appName is the application name used for directories and display.
const appName = "ferium"

// defaultCacheTTL is how long platform API responses stay cached. Mod
// releases are not that frequent; four hours keeps repeat upgrades fast
// without hiding new versions for long.
const defaultCacheTTL = 4 * time.Hour

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Ferium keeps a Minecraft mods directory in sync with its sources",
		Long:         `Ferium is a CLI mod manager. Given a profile of mods from Modrinth, CurseForge, and GitHub Releases, it resolves the latest compatible version of each (plus required dependencies) and synchronizes the output directory to exactly that set.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.upgradeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// newCacheBackend picks the response cache backend: null for --no-cache,
// Redis when FERIUM_REDIS_ADDR is set, the file cache otherwise.
func (c *CLI) newCacheBackend(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv("FERIUM_REDIS_ADDR"); addr != "" {
		c.Logger.Debugf("using redis cache at %s", addr)
		return cache.NewRedisCache(ctx, addr)
	}
	return cache.NewFileCache("")
}

// newResolver wires the three platform clients to a resolution engine.
// API credentials come from the environment: CURSEFORGE_API_KEY and
// GITHUB_TOKEN (the latter optional).
func (c *CLI) newResolver(backend cache.Cache, limit int) *upgrade.Resolver {
	cf := curseforge.NewClient(backend, defaultCacheTTL, os.Getenv("CURSEFORGE_API_KEY"))
	mr := modrinth.NewClient(backend, defaultCacheTTL)
	gh := github.NewClient(backend, defaultCacheTTL, os.Getenv("GITHUB_TOKEN"))
	return upgrade.NewResolver(cf, mr, gh, upgrade.Options{Limit: limit, Logger: c.Logger})
}
