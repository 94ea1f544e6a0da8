package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/thomhayward/ferium/pkg/mods"
	"github.com/thomhayward/ferium/pkg/upgrade"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	configPath string
	output     string
	format     string // dot | svg
	noCache    bool
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the resolved mod dependency graph",
		Long: `Render the resolved mod dependency graph.

Resolves the active profile exactly like 'upgrade' (without touching the
output directory) and writes the mod-to-dependency relationships as a
Graphviz DOT file, or as SVG when --format svg is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "dot" && opts.format != "svg" {
				return fmt.Errorf("unknown format %q (want dot or svg)", opts.format)
			}
			return c.runGraph(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/ferium/config.toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default mods.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts graphOpts) error {
	profile, items, err := c.loadActiveProfile(opts.configPath)
	if err != nil {
		return err
	}

	backend, err := c.newCacheBackend(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	resolver := c.newResolver(backend, upgrade.DefaultLimit)
	outcome, err := resolver.Resolve(ctx, items, profile.Filters)
	if err != nil {
		return err
	}
	if outcome.Errored {
		printWarning("Some mods failed to resolve and are missing from the graph")
	}

	dot := toDOT(outcome)
	data := []byte(dot)
	if opts.format == "svg" {
		if data, err = renderSVG(ctx, dot); err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	path := opts.output
	if path == "" {
		path = "mods." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote %s (%d mods)", path, len(outcome.Downloadables))
	return nil
}

// toDOT converts a resolution outcome to Graphviz DOT. Nodes are resolved
// mods labelled by display name; edges point from a mod to each of its
// required dependencies. Dependencies that failed to resolve still appear,
// as dashed nodes named by identifier.
func toDOT(outcome *upgrade.Outcome) string {
	label := func(id mods.Identifier) (string, bool) {
		for _, dl := range outcome.Downloadables {
			if dl.Identifier.SameProject(id) {
				return dl.Name, true
			}
		}
		return id.ShortName(), false
	}

	var buf bytes.Buffer
	buf.WriteString("digraph mods {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n\n")

	for _, dl := range outcome.Downloadables {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", dl.Name, dl.Name+"\n"+dl.Filename)
	}
	var unresolved []string
	for _, dl := range outcome.Downloadables {
		for _, dep := range dl.Dependencies {
			name, ok := label(dep)
			if !ok {
				unresolved = append(unresolved, name)
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", dl.Name, name)
		}
	}
	for _, name := range unresolved {
		fmt.Fprintf(&buf, "  %q [style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", name)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// renderSVG renders a DOT graph to SVG using Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
