package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/catalog"
)

// presetsCommand creates the presets command.
func (c *CLI) presetsCommand() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Show the room preset catalogue",
		Long: `Presets loads the configured catalogue (or the built-in one) and lists the
resolved sizing for every room kind. Kinds the catalogue does not cover use
the built-in fallback values.`,
		Example: `  floorplan presets
  floorplan presets --catalog https://example.com/presets.json
  floorplan presets --export presets.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("export") {
				return exportPresets(export)
			}
			return c.runPresets(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the built-in catalogue to a file ('-' for stdout)")
	cmd.Flags().Lookup("export").NoOptDefVal = stdoutPath

	return cmd
}

func (c *CLI) runPresets(ctx context.Context) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	cat := runner.Catalog.Get(ctx)
	printKeyValue("Source", cat.Source())
	if v := cat.Version(); v != "" {
		printKeyValue("Version", v)
	}
	printKeyValue("Void ratio", fmt.Sprintf("%.0f%%", cat.VoidRatio()*100))
	if cat.IsFallback() {
		printWarning("catalogue unavailable, using built-in fallback values")
	}
	if alloc, ok := cat.DefaultAllocation(); ok {
		printKeyValue("Allocation", fmt.Sprintf("%s (%d rooms)", alloc.Name, len(alloc.Rooms)))
	}
	printNewline()

	fmt.Fprintln(stdout, presetTable(cat).Render())
	return nil
}

func presetTable(cat *catalog.Catalog) *table.Table {
	var rows [][]string
	for _, k := range cat.Kinds() {
		cfg := cat.Config(k)
		origin := "catalog"
		if cfg.Fallback {
			origin = "fallback"
		}
		maxArea := "-"
		if cfg.MaxArea > 0 {
			maxArea = fmt.Sprintf("%.1f", cfg.MaxArea)
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Color)).Render("■")
		rows = append(rows, []string{
			string(k),
			cfg.Label,
			fmt.Sprintf("%.1f", cfg.MinArea),
			maxArea,
			fmt.Sprintf("%.2f", cfg.AspectRatio),
			swatch + " " + cfg.Color,
			origin,
		})
	}
	return newTable([]string{"Kind", "Label", "Min m²", "Max m²", "Aspect", "Color", "From"}, rows)
}

// exportPresets writes the embedded catalogue so it can be edited and passed
// back with --catalog.
func exportPresets(path string) error {
	if path == "" || path == stdoutPath {
		_, err := stdout.Write(catalog.DefaultResource)
		return err
	}
	if err := os.WriteFile(path, catalog.DefaultResource, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Exported built-in catalogue")
	printFile(path)
	printNextStep("Use it", fmt.Sprintf("%s generate house.plan --catalog %s", appName, path))
	return nil
}
