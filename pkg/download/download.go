package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thomhayward/ferium/pkg/mods"
)

// DefaultLimit is the default number of concurrent file downloads.
const DefaultLimit = 4

var (
	styleTick = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Options configures the download phase.
type Options struct {
	Limit  int       // Maximum concurrent transfers (default: DefaultLimit)
	Output io.Writer // Per-file report lines (default: os.Stdout)
}

// WithDefaults returns a copy of Options with zero values replaced by
// defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return opts
}

// Download fetches every remaining downloadable to its output path and
// copies every install candidate from the user subdirectory into the
// output root. Items are independent; transfers run concurrently and in no
// particular order. The first error cancels outstanding transfers and is
// returned.
func Download(ctx context.Context, outputDir string, toDownload []*mods.Downloadable, toInstall []Install, opts Options) error {
	opts = opts.WithDefaults()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Limit)

	var mu sync.Mutex
	report := func(name, detail string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(opts.Output, "%s %s %s\n", styleTick.Render("✓"), name, styleDim.Render(detail))
	}

	client := &http.Client{}
	for _, dl := range toDownload {
		g.Go(func() error {
			if err := fetchFile(ctx, client, dl); err != nil {
				return fmt.Errorf("download %s: %w", dl.Name, err)
			}
			report(dl.Name, dl.Filename)
			return nil
		})
	}
	for _, in := range toInstall {
		g.Go(func() error {
			if err := installFile(outputDir, in); err != nil {
				return fmt.Errorf("install %s: %w", in.Name, err)
			}
			report(in.Name, "installed from "+UserDir)
			return nil
		})
	}
	return g.Wait()
}

// fetchFile streams one file to a uniquely named temporary file in the
// output directory, then renames it into place. The rename makes each
// write whole-file: readers never observe a partially written mod.
func fetchFile(ctx context.Context, client *http.Client, dl *mods.Downloadable) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dl.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp := filepath.Join(dl.Output, ".tmp-"+uuid.NewString())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dl.OutputPath())
}

// installFile copies one manual-install candidate into the output root.
func installFile(outputDir string, in Install) error {
	src, err := os.Open(in.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(outputDir, in.Name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
