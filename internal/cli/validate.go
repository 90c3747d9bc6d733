package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/area"
	"github.com/matzehuels/floorplan/pkg/dsl"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// validateOpts holds the command-line flags for the validate command.
type validateOpts struct {
	strict bool
	json   bool
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var opts validateOpts

	cmd := &cobra.Command{
		Use:   "validate [request]",
		Short: "Check whether the requested rooms fit the floor",
		Long: `Validate compares the usable floor area against the minimum areas of the
requested rooms without placing anything. The check is advisory unless
--strict is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when the rooms do not fit")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the verdict as JSON")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, input string, opts validateOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	req, err := dsl.ReadFile(input)
	if err != nil {
		return err
	}
	cfg.ApplyDefaults(&req)
	if err := req.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	verdict := runner.Validate(ctx, req)
	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(verdict); err != nil {
			return err
		}
	} else {
		printVerdict(input, verdict)
	}

	if opts.strict && !verdict.IsValid {
		return fmt.Errorf("%s", area.Message(verdict))
	}
	return nil
}

func printVerdict(input string, v plan.Verdict) {
	if v.IsValid {
		printSuccess("%s fits", input)
	} else {
		printError("%s does not fit", input)
		printDetail("%s", area.Message(v))
	}
	printNewline()

	rows := make([][]string, 0, len(v.Breakdown))
	for _, b := range v.Breakdown {
		rows = append(rows, []string{
			b.Label,
			fmt.Sprintf("%d", b.Count),
			fmt.Sprintf("%.1f m²", b.MinAreaPerRoom),
			fmt.Sprintf("%.1f m²", b.TotalMinArea),
		})
	}
	fmt.Fprintln(stdout, newTable([]string{"Room", "Count", "Min each", "Min total"}, rows).Render())
	printNewline()

	printKeyValue("Usable", fmt.Sprintf("%.1f m²", v.UsableArea))
	printKeyValue("Required", fmt.Sprintf("%.1f m²", v.RequiredArea))
	if v.Shortage > 0 {
		printKeyValue("Shortage", StyleWarning.Render(fmt.Sprintf("%.1f m²", v.Shortage)))
	}
	printKeyValue("Efficiency", fmt.Sprintf("%.0f%%", v.Efficiency))
	for _, a := range area.Advisories(v) {
		printWarning("%s", a)
	}
}
