package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// renderCommand creates the render command for generating images of a layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      gridFlags
		output     string
		formatsStr string
		noCache    bool
		offset     int
		scrollTo   int
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a layout to SVG, JSON, DOT, PNG or PDF",
		Long: `Render a layout to SVG, JSON, DOT, PNG or PDF.

With --viewport the current viewport is drawn over the layout and items
outside it are dimmed. PNG and PDF use rsvg-convert when it is installed;
PNG falls back to the built-in Graphviz renderer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := flags.apply(&base, cmd.Flags().Changed); err != nil {
				return err
			}
			base.Formats = parseFormats(formatsStr)
			base.Viewport = opts.Viewport
			base.Labels = opts.Labels
			base.Refresh = opts.Refresh
			base.Offset = offset
			if cmd.Flags().Changed("scroll-to") {
				base.ScrollTo = &scrollTo
			}
			return c.runRender(cmd.Context(), base, output, noCache)
		},
	}

	addGridFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: flowgrid)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&opts.Viewport, "viewport", false, "draw the viewport and dim hidden items")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "label items with their index")
	cmd.Flags().IntVar(&offset, "offset", 0, "scroll offset in pixels")
	cmd.Flags().IntVar(&scrollTo, "scroll-to", 0, "item index to bring into view")

	return cmd
}

// runRender runs the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Rendered %d item(s)", result.Stats.ItemCount)
	for _, format := range opts.Formats {
		path := outputPath(output, format, len(opts.Formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.ItemCount, len(result.View.Visible), result.CacheInfo.RenderHit)
	return nil
}

// outputPath picks the file for one format. A single format writes to output
// as given; several formats share output as a base name.
func outputPath(output, format string, formats int) string {
	if output == "" {
		return appName + "." + format
	}
	if formats == 1 {
		return output
	}
	return basePath(output) + "." + format
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
