package cli

import (
	"bytes"
	"context"
	"os"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"github.com/matzehuels/autoremove/pkg/errors"
	"github.com/matzehuels/autoremove/pkg/graph"
	pkgio "github.com/matzehuels/autoremove/pkg/io"
	"github.com/matzehuels/autoremove/pkg/render/nodelink"
)

// Graph output formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

var graphFormats = []string{formatJSON, formatDOT, formatSVG, formatPDF, formatPNG}

type graphOptions struct {
	format        string
	output        string
	detailed      bool
	onlyDead      bool
	includeExtras bool
	from          string
	scale         float64
}

func (c *CLI) graphCommand(env *envFlags) *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph [NAME]...",
		Short: "Export the reverse-dependency graph of installed packages",
		Long: `Export the reverse-dependency graph of installed packages.

Edges point from a package to what it requires. When package names are given,
everything removing them would leave unused is highlighted.`,
		Example: `  autoremove graph -o env.json
  autoremove graph Flask --format svg -o flask.svg
  autoremove graph Flask --only-dead --format dot
  autoremove graph --from env.json --format svg -o env.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, env, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "output format: json, dot, svg, pdf, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show version and location in diagram nodes")
	cmd.Flags().BoolVar(&opts.onlyDead, "only-dead", false, "limit the graph to the packages that would be removed")
	cmd.Flags().BoolVarP(&opts.includeExtras, "include-extras", "e", false, "include edges through extras")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2.0, "PNG scale factor")
	cmd.Flags().StringVar(&opts.from, "from", "", "render a graph previously exported as JSON instead of the environment")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, env *envFlags, opts graphOptions, args []string) error {
	format := strings.ToLower(opts.format)
	if !slices.Contains(graphFormats, format) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want one of %s)", opts.format, strings.Join(graphFormats, ", "))
	}
	if opts.onlyDead && len(args) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--only-dead needs package names")
	}
	if opts.from != "" && len(args) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--from cannot be combined with package names")
	}

	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	var g *graph.Graph
	var dead mapset.Set[string]
	var err error
	if opts.from != "" {
		if g, err = pkgio.ImportJSON(opts.from); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read graph")
		}
		prog.debug("Loaded %d packages from %s", g.NodeCount(), opts.from)
	} else if g, dead, err = c.envGraph(cmd, env, opts, args); err != nil {
		return err
	}
	if opts.onlyDead {
		alive := mapset.NewThreadUnsafeSet(g.NodeIDs()...).Difference(dead)
		g = g.Without(alive)
	}

	nodeOpts := nodelink.Options{Detailed: opts.detailed, Dead: dead}
	if opts.output == "" {
		data, err := renderGraph(ctx, g, format, nodeOpts, opts.scale)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := exportGraph(ctx, g, format, nodeOpts, opts.scale, opts.output); err != nil {
		return err
	}
	prog.done("Rendered graph")

	deadCount := 0
	if dead != nil {
		deadCount = dead.Cardinality()
	}
	out := cmd.OutOrStdout()
	printSuccess(out, "Wrote %s graph", format)
	printStats(out, g.NodeCount(), g.EdgeCount(), deadCount)
	printFile(out, opts.output)
	return nil
}

// envGraph reads the installed packages and returns their graph. When names
// are given, dead holds the removal plan and the graph is the one it was
// computed on.
func (c *CLI) envGraph(cmd *cobra.Command, env *envFlags, opts graphOptions, names []string) (*graph.Graph, mapset.Set[string], error) {
	ctx := cmd.Context()
	cfg, err := env.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if opts.includeExtras {
		cfg.IncludeExtras = true
	}

	session, err := c.openSession(ctx, cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	planner := newPlanner(ctx, session, cfg)

	var dead mapset.Set[string]
	if len(names) > 0 {
		plan, err := planner.Plan(ctx, names)
		if err != nil {
			return nil, nil, err
		}
		for _, name := range plan.Skipped {
			printWarning(cmd.ErrOrStderr(), "%s is not an installed package, skipping", name)
		}
		dead = mapset.NewThreadUnsafeSet(plan.Order...)
		if plan.Graph != nil {
			return plan.Graph, dead, nil
		}
	}
	g, err := planner.Graph(ctx)
	return g, dead, err
}

// exportGraph writes g to path in format.
func exportGraph(ctx context.Context, g *graph.Graph, format string, opts nodelink.Options, scale float64, path string) error {
	if format == formatJSON {
		return pkgio.ExportJSON(g, path)
	}
	data, err := renderGraph(ctx, g, format, opts, scale)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// renderGraph encodes g in format.
func renderGraph(ctx context.Context, g *graph.Graph, format string, opts nodelink.Options, scale float64) ([]byte, error) {
	if format == formatJSON {
		var buf bytes.Buffer
		if err := pkgio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(g, opts)
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		return nodelink.RenderPNG(ctx, dot, scale)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
}
