package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomhayward/ferium/pkg/config"
	"github.com/thomhayward/ferium/pkg/download"
	"github.com/thomhayward/ferium/pkg/mods"
	"github.com/thomhayward/ferium/pkg/upgrade"
)

// upgradeOpts holds the command-line flags for the upgrade command.
type upgradeOpts struct {
	configPath string // config file path ("" = default)
	parallel   int    // concurrent network operations
	noCache    bool   // bypass the response cache
}

func (c *CLI) upgradeCommand() *cobra.Command {
	opts := upgradeOpts{parallel: upgrade.DefaultLimit}

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Download and install the latest compatible version of every mod",
		Long: `Download and install the latest compatible version of every mod.

Each mod in the active profile is resolved against its platform using the
profile's mod loader and game version filters. Required dependencies are
resolved too. The output directory is then reconciled: files already up to
date are kept, files that no longer belong are moved into ` + download.OldDir + `/,
and jars placed in ` + download.UserDir + `/ are installed alongside the managed ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpgrade(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/ferium/config.toml)")
	cmd.Flags().IntVar(&opts.parallel, "parallel", opts.parallel, "maximum concurrent network operations")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runUpgrade(ctx context.Context, opts upgradeOpts) error {
	profile, items, err := c.loadActiveProfile(opts.configPath)
	if err != nil {
		return err
	}

	backend, err := c.newCacheBackend(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	resolver := c.newResolver(backend, opts.parallel)

	fmt.Println(StyleTitle.Render("Determining the Latest Compatible Versions"))
	fmt.Println()
	outcome, err := resolver.Resolve(ctx, items, profile.Filters)
	if err != nil {
		return err
	}

	toDownload := outcome.Downloadables

	// Quilt loads nothing from unmanaged jars, so manual installs are
	// gathered for every other loader only.
	var toInstall []download.Install
	if profile.Loader() != mods.LoaderQuilt {
		toInstall, err = download.ScanUserDir(profile.OutputDir)
		if err != nil {
			return fmt.Errorf("scan %s: %w", download.UserDir, err)
		}
	}

	if err := download.Clean(profile.OutputDir, &toDownload, &toInstall); err != nil {
		return fmt.Errorf("clean %s: %w", profile.OutputDir, err)
	}
	for _, dl := range toDownload {
		dl.Output = profile.OutputDir
	}

	if len(toDownload) == 0 && len(toInstall) == 0 {
		fmt.Println()
		printSuccess("All up to date!")
	} else {
		fmt.Println()
		fmt.Println(StyleTitle.Render("Downloading Mod Files"))
		fmt.Println()
		err := download.Download(ctx, profile.OutputDir, toDownload, toInstall, download.Options{
			Limit: opts.parallel,
		})
		if err != nil {
			return err
		}
	}

	if outcome.Errored {
		return errors.New("could not get the latest compatible version of some mods")
	}
	return nil
}

// loadActiveProfile loads the config file and converts the active
// profile's entries into resolver work items.
func (c *CLI) loadActiveProfile(path string) (*config.Profile, []mods.Mod, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	profile, err := cfg.Active()
	if err != nil {
		return nil, nil, err
	}
	items, err := profile.WorkItems()
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debugf("profile %q: %d mods, output %s", profile.Name, len(items), profile.OutputDir)
	return profile, items, nil
}
