// Package upgrade implements the concurrent mod resolution engine.
//
// Resolution is a self-feeding producer/consumer: the profile seeds a work
// queue, every successfully fetched mod may reveal required dependencies,
// and those dependencies are fed back into the same queue until nothing is
// outstanding. The size of the work graph is unknown until it has been
// walked.
//
// A single dispatch goroutine owns the queue and the dedup ledger, so no
// lock guards either. Workers — one goroutine per accepted item, gated by a
// weighted semaphore — only talk to the dispatch loop through a results
// channel. The loop terminates when the queue is empty and the in-flight
// count is zero, which is exact by construction: the count is incremented
// before each spawn and decremented only when the loop has consumed that
// worker's result, dependencies included.
package upgrade

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	ferrors "github.com/thomhayward/ferium/pkg/errors"
	"github.com/thomhayward/ferium/pkg/mods"
	"github.com/thomhayward/ferium/pkg/platforms"
)

// DefaultLimit is the default number of concurrent platform fetches.
const DefaultLimit = 10

// Options configures a Resolver.
type Options struct {
	Limit  int         // Maximum concurrent fetches (default: DefaultLimit)
	Logger *log.Logger // Debug logging (default: log.Default())
	Output io.Writer   // Progress output (default: os.Stderr)
}

// WithDefaults returns a copy of Options with zero values replaced by
// defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return opts
}

// Resolver resolves a profile's mods against their platforms, expanding
// transitively discovered dependencies.
type Resolver struct {
	platforms map[mods.Kind]platforms.Platform
	opts      Options
}

// NewResolver creates a Resolver over the three platform capabilities.
// The modrinth platform serves both pinned and unpinned identifiers.
func NewResolver(curseforge, modrinth, github platforms.Platform, opts Options) *Resolver {
	return &Resolver{
		platforms: map[mods.Kind]platforms.Platform{
			mods.KindCurseForge:     curseforge,
			mods.KindModrinth:       modrinth,
			mods.KindPinnedModrinth: modrinth,
			mods.KindGitHub:         github,
		},
		opts: opts.WithDefaults(),
	}
}

// Outcome is what a resolution run produced. Errored reports whether any
// mod failed with a non-fatal error; those failures never abort sibling
// work.
type Outcome struct {
	Downloadables []*mods.Downloadable
	Errored       bool
}

// result carries one worker's outcome back to the dispatch loop.
type result struct {
	mod mods.Mod
	dl  *mods.Downloadable
	err error
}

// Resolve fetches the latest compatible downloadable for every work item,
// recursively expanding dependencies, and reports per-mod failures through
// Outcome.Errored.
//
// The one fatal failure class is platform rate-limit exhaustion: it cancels
// all outstanding fetches and is returned as the error. The Outcome
// returned alongside it still holds every downloadable completed before the
// abort.
//
// Dependencies resolve with empty filters (platform defaults): filters
// express user intent about direct selections, not transitive ones. At most
// one downloadable is produced per underlying mod; a pinned and an unpinned
// reference to the same Modrinth project clash, and the first seen wins
// with a warning.
func (r *Resolver) Resolve(ctx context.Context, items []mods.Mod, base mods.Filters) (*Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(r.opts.Limit))
	results := make(chan result)
	progress := newProgress(r.opts.Output, padLen(items))

	queue := append([]mods.Mod(nil), items...)
	var ledger []mods.Identifier
	outcome := &Outcome{}
	inflight := 0

	for len(queue) > 0 || inflight > 0 {
		for _, m := range queue {
			if clash, seen := lookup(ledger, m.Identifier); seen {
				if clash != m.Identifier {
					progress.Warnf("Multiple versions of %s were requested, %s and %s. Ignoring the latter.",
						clash.ShortName(), clash.PinLabel(), m.Identifier.PinLabel())
				}
				continue
			}
			ledger = append(ledger, m.Identifier)

			filters := base
			if m.OverrideFilters {
				filters = m.Filters
			}

			progress.AddTotal(1)
			inflight++
			go r.fetch(ctx, sem, m, filters, progress, results)
		}
		queue = queue[:0]

		if inflight == 0 {
			break
		}
		res := <-results
		inflight--

		if res.err != nil {
			if ferrors.IsRateLimited(res.err) {
				cancel()
				for inflight > 0 {
					<-results
					inflight--
				}
				progress.Clear()
				return outcome, res.err
			}
			progress.Fail(res.mod.Name, res.err)
			outcome.Errored = true
			continue
		}

		progress.Tick(res.mod.Name, res.dl.Filename)
		outcome.Downloadables = append(outcome.Downloadables, res.dl)
		for _, dep := range res.dl.Dependencies {
			queue = append(queue, mods.Dependency(dep))
		}
	}

	progress.Clear()
	return outcome, nil
}

// fetch runs in its own goroutine. The semaphore permit is acquired here so
// a full limiter never blocks the dispatch loop, and it is released on
// every exit path.
func (r *Resolver) fetch(ctx context.Context, sem *semaphore.Weighted, m mods.Mod, filters mods.Filters, progress *Progress, results chan<- result) {
	if err := sem.Acquire(ctx, 1); err != nil {
		results <- result{mod: m, err: err}
		return
	}
	defer sem.Release(1)

	p := r.platforms[m.Identifier.Kind]
	if p == nil {
		progress.Inc()
		results <- result{mod: m, err: fmt.Errorf("no platform registered for %s", m.Identifier.Kind)}
		return
	}

	r.opts.Logger.Debugf("resolving %s via %s", m.Identifier, p.Name())
	dl, err := p.Resolve(ctx, m.Identifier, filters)
	progress.Inc()
	if err == nil {
		dl.Name = m.Name
		dl.Identifier = m.Identifier
	}
	results <- result{mod: m, dl: dl, err: err}
}

// lookup scans the ledger for an identifier naming the same underlying mod.
func lookup(ledger []mods.Identifier, id mods.Identifier) (mods.Identifier, bool) {
	for _, seen := range ledger {
		if seen.SameProject(id) {
			return seen, true
		}
	}
	return mods.Identifier{}, false
}

// padLen sizes the name column from the profile's mod names, clamped to a
// sane range.
func padLen(items []mods.Mod) int {
	pad := 0
	for _, m := range items {
		pad = max(pad, len(m.Name))
	}
	return min(max(pad, 20), 50)
}
