package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/dsl"
	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/session"
)

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	output      string
	noTemplates bool
	noCache     bool
}

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [request]",
		Short: "Adjust a generated layout interactively",
		Long: `Edit generates a layout for the request and opens it in the terminal.
Rooms can be moved and resized by hand; edits that leave the interior or
overlap another room are rejected. Press s to save the result as JSON, which
"floorplan render" can draw.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "where to save the edited layout (default: <request>-plan.json)")
	cmd.Flags().BoolVar(&opts.noTemplates, "no-templates", false, "always use the heuristic placer")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input string, opts editOpts) error {
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

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{NoTemplates: opts.noTemplates}
	gen := func(ctx context.Context, req plan.Request) (*plan.Result, error) {
		return runner.Generate(ctx, req, popts)
	}
	result, err := gen(ctx, req)
	if err != nil {
		return err
	}

	store := session.NewMemoryStore()
	sess := session.New(req, result, cfg.Server.SessionTTL)
	if err := store.Set(ctx, sess); err != nil {
		return err
	}

	savePath := opts.output
	if savePath == "" {
		savePath = outputBase(input, "", false) + ".json"
	}
	save := func(res *plan.Result) (string, error) {
		return savePath, plan.WriteResultFile(res, savePath)
	}

	final, err := tea.NewProgram(NewEditModel(ctx, store, sess, gen, save), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	m, ok := final.(EditModel)
	if !ok || m.Saved == "" {
		printInfo("Layout not saved")
		return nil
	}
	printSuccess("Saved layout (revision %d)", m.Session.Revision)
	printFile(m.Saved)
	printNewline()
	printNextStep("Render it", fmt.Sprintf("%s render %s -f svg,pdf", appName, m.Saved))
	return nil
}
