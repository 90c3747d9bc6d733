package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/plan"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string
	render  renderFlags
	noCache bool
}

// renderCommand creates the render command for drawing an existing layout.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [result.json]",
		Short: "Render a generated layout",
		Long: `Render draws a layout previously written with "generate -f json" (or saved
from the editor) without placing the rooms again.`,
		Example: `  floorplan render house-plan.json -f pdf,png --scale 80`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path")
	opts.render.register(cmd)
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	popts, err := opts.render.options()
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)
	layout, err := plan.ReadResultFile(input)
	if err != nil {
		return err
	}
	prog.step("loaded layout", "rooms", len(layout.Rooms))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, layout, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.step("rendered", "formats", popts.Formats, "cached", hit)

	base := outputBase(input, opts.output, false)
	files, err := writeArtifacts(artifacts, popts.Formats, base, opts.output, false)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", input)
	printStats(len(layout.Rooms), 0, hit)
	for _, f := range files {
		printFile(f)
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing rendered")
	}
	return nil
}
