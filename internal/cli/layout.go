package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// layoutFile is the document written by the layout command.
type layoutFile struct {
	Layout *grid.Layout  `json:"layout"`
	View   pipeline.View `json:"view"`
}

// layoutCommand creates the layout command for packing items.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags    gridFlags
		output   string
		noCache  bool
		offset   int
		scrollTo int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Pack items into tracks and report what the viewport shows",
		Long: `Pack items into tracks and report what the viewport shows.

Item sizes come from --sizes, the [items] section of the config file, or the
built-in demo sequence. The viewport starts at the top; --offset scrolls it
and --scroll-to brings an item into view the way a jump would.

Results are cached, so repeating a layout is instant.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := flags.apply(&opts, cmd.Flags().Changed); err != nil {
				return err
			}
			opts.Offset = offset
			if cmd.Flags().Changed("scroll-to") {
				opts.ScrollTo = &scrollTo
			}
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	addGridFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write layout and view as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&offset, "offset", 0, "scroll offset in pixels")
	cmd.Flags().IntVar(&scrollTo, "scroll-to", 0, "item index to bring into view")

	return cmd
}

// runLayout computes the layout and view, prints a summary and optionally
// writes the JSON document.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d items...", opts.Count))
	spinner.Start()

	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("Computed layout")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	view, err := pipeline.ComputeView(opts)
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	printLayoutSummary(layout, view, cacheHit)

	if output == "" {
		return nil
	}
	data, err := json.MarshalIndent(layoutFile{Layout: layout, View: view}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printFile(output)
	printNewline()
	printNextStep("Render", "flowgrid render -f svg,png")
	return nil
}

func printLayoutSummary(l *grid.Layout, view pipeline.View, cached bool) {
	width, height := l.Size()
	printKeyValue("Size", fmt.Sprintf("%dx%d px", width, height))
	printKeyValue("Tracks", fmt.Sprintf("%d x %d px (%s)", l.Tracks, l.Unit, l.Orientation))
	printKeyValue("Offset", fmt.Sprintf("%d of %d", view.Offset, view.MaxOffset))
	printKeyValue("Visible", fmt.Sprint(view.Visible))
	if missing := l.Unplaceable(); len(missing) > 0 {
		printWarning("%d item(s) too wide for %d tracks: %v", len(missing), l.Tracks, missing)
	}
	printStats(l.Len(), len(view.Visible), cached)
}
