package pipeline

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l *grid.Layout, view View, opts Options) (map[string][]byte, error) {
	ropts := renderOptions(view, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(l, ropts...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatJSON:
			data, err = render.RenderJSON(l, ropts...)
		case FormatDOT:
			data = []byte(render.ToDOT(l, ropts...))
		case FormatPNG:
			data, err = renderPNG(ctx, l, svgOnce, ropts)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderPNG prefers rsvg-convert, which draws the SVG exactly, and falls back
// to the embedded Graphviz renderer.
func renderPNG(ctx context.Context, l *grid.Layout, svg func() []byte, ropts []render.Option) ([]byte, error) {
	if render.HasRSVG() {
		return render.ToPNG(ctx, svg(), DefaultPNGScale)
	}
	return render.RenderDOT(ctx, render.ToDOT(l, ropts...), graphviz.PNG)
}

func renderOptions(view View, opts Options) []render.Option {
	var ropts []render.Option
	if opts.Inset > 0 {
		ropts = append(ropts, render.WithInsets(opts.Inset))
	}
	if opts.Viewport {
		cfg, _ := opts.GridConfig()
		main, _ := grid.AxisFor(cfg.Orientation).Extents(opts.Width, opts.Height)
		ropts = append(ropts, render.WithViewport(view.Offset, main))
	}
	if opts.Labels {
		ropts = append(ropts, render.WithLabels())
	}
	return ropts
}
