package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/floorplan/internal/config"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/dsl"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// stdoutPath writes a single artifact to standard output.
const stdoutPath = "-"

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output      string
	render      renderFlags
	noTemplates bool
	refresh     bool
	noCache     bool
	profile     bool
	jobs        int
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "generate [request...]",
		Short: "Generate floor plans from request files",
		Long: `Generate places the requested rooms inside each floor and writes the
rendered plan next to the request (or to --output).

Request files may be JSON, TOML, YAML or .plan. Several requests are processed
concurrently; outputs are reported in argument order.`,
		Example: `  floorplan generate house.plan
  floorplan generate house.json -f svg,pdf,json -o out/house
  floorplan generate a.plan b.plan c.toml -o out/ -j 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path, or directory when several requests are given ('-' for stdout)")
	opts.render.register(cmd)
	cmd.Flags().BoolVar(&opts.noTemplates, "no-templates", false, "always use the heuristic placer")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "fill requests without rooms from the catalogue's default allocation")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "requests processed concurrently")

	return cmd
}

// generateOutcome is the result of one request in a batch.
type generateOutcome struct {
	input  string
	result *pipeline.Result
	files  []string
	err    error
}

func (c *CLI) runGenerate(ctx context.Context, inputs []string, opts generateOpts) error {
	popts, err := opts.render.options()
	if err != nil {
		return err
	}
	popts.NoTemplates = opts.noTemplates
	popts.Refresh = opts.refresh

	toStdout := opts.output == stdoutPath
	if toStdout && (len(inputs) > 1 || len(popts.Formats) > 1) {
		return fmt.Errorf("--output - needs exactly one request and one format")
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d plan(s)...", len(inputs)))
		spinner.Start()
	}

	outcomes := make([]generateOutcome, len(inputs))
	var finished atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			outcomes[i] = c.generateOne(gctx, runner, cfg, input, opts, popts, len(inputs) > 1)
			if n := finished.Add(1); spinner != nil && len(inputs) > 1 {
				spinner.Update(fmt.Sprintf("Generated %d/%d plan(s)...", n, len(inputs)))
			}
			return gctx.Err()
		})
	}
	waitErr := g.Wait()
	if spinner != nil {
		spinner.Stop()
	}
	if waitErr != nil {
		return waitErr
	}

	if toStdout {
		o := outcomes[0]
		if o.err != nil {
			return o.err
		}
		_, err := stdout.Write(o.result.Artifacts[popts.Formats[0]])
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			printError("%s: %s", o.input, errors.UserMessage(o.err))
			continue
		}
		printOutcome(o)
	}
	prog.done(fmt.Sprintf("Generated %d of %d plan(s)", len(inputs)-failed, len(inputs)))

	if failed > 0 {
		return fmt.Errorf("%d of %d request(s) failed", failed, len(inputs))
	}
	if len(inputs) == 1 {
		printNewline()
		printNextStep("Adjust it interactively", fmt.Sprintf("%s edit %s", appName, inputs[0]))
	}
	return nil
}

// generateOne reads, validates, generates and writes one request.
func (c *CLI) generateOne(ctx context.Context, runner *pipeline.Runner, cfg config.Config, input string, opts generateOpts, popts pipeline.Options, batch bool) generateOutcome {
	out := generateOutcome{input: input}

	req, err := dsl.ReadFile(input)
	if err != nil {
		out.err = err
		return out
	}
	cfg.ApplyDefaults(&req)
	if opts.profile && len(req.Rooms) == 0 {
		if !applyProfile(&req, runner.Catalog.Get(ctx)) {
			c.Logger.Warn("catalog has no default allocation", "input", input)
		}
	}
	if err := req.Validate(); err != nil {
		out.err = err
		return out
	}

	out.result, err = runner.Execute(ctx, req, popts)
	if err != nil {
		out.err = err
		return out
	}
	if opts.output == stdoutPath {
		return out
	}

	out.files, out.err = writeArtifacts(out.result.Artifacts, popts.Formats, outputBase(input, opts.output, batch), opts.output, batch)
	return out
}

func printOutcome(o generateOutcome) {
	layout := o.result.Layout
	name := layout.Template
	if name == "" {
		name = "heuristic"
	}
	printSuccess("%s %s", o.input, StyleDim.Render("("+name+")"))
	for _, w := range layout.Warnings {
		printWarning("%s", w)
	}
	printStats(o.result.Stats.Placed, o.result.Stats.Dropped, o.result.CacheInfo.LayoutHit)
	for _, f := range o.files {
		printFile(f)
	}
}

// applyProfile fills an empty room list from the catalogue's default
// allocation. IDs are the kind followed by a per-kind counter.
func applyProfile(req *plan.Request, cat *catalog.Catalog) bool {
	alloc, ok := cat.DefaultAllocation()
	if !ok {
		return false
	}
	seen := make(map[plan.Kind]int)
	for _, k := range alloc.Rooms {
		seen[k]++
		req.Rooms = append(req.Rooms, plan.RoomRequest{
			ID:   fmt.Sprintf("%s-%d", k, seen[k]),
			Type: k,
		})
	}
	return true
}

// =============================================================================
// Output Paths
// =============================================================================

// outputBase returns the path, without extension, that artifacts for input
// are written to.
func outputBase(input, output string, batch bool) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(input), stem+"-plan")
	case batch:
		return filepath.Join(output, stem)
	default:
		return trimFormatExt(output)
	}
}

// trimFormatExt strips a known output extension from path.
func trimFormatExt(path string) string {
	for _, f := range pipeline.FormatOrder {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// writeArtifacts writes each rendered format to base.<ext>. A single format
// with an explicit output file name is written to that path unchanged.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string, batch bool) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	var paths []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := base + "." + pipeline.Extension(f)
		if len(formats) == 1 && !batch && filepath.Ext(output) != "" {
			path = output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
