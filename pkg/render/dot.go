package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

// pointsPerInch converts pixel sizes to Graphviz node sizes. One pixel is
// drawn as one point.
const pointsPerInch = 72.0

// ToDOT describes the layout as an undirected Graphviz graph whose nodes are
// pinned at the packed positions. Graphviz puts the origin at the bottom
// left, so the vertical axis is flipped.
func ToDOT(l *grid.Layout, opts ...Option) string {
	o := newOptions(opts)
	_, h := l.Size()
	visible := o.visible(l)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, color=white, fontcolor=white, fontsize=10, label=\"\"];\n")
	buf.WriteString("\n")

	for i, r := range l.Rects {
		if r.Degenerate() {
			continue
		}
		d := o.decorated(l, i)
		cx := float64(d.Left+d.Right) / 2
		cy := float64(h) - float64(d.Top+d.Bottom)/2
		fmt.Fprintf(&buf, "  i%d [pos=\"%.1f,%.1f!\", width=%.4f, height=%.4f, fillcolor=%q",
			i, cx, cy, float64(d.Width())/pointsPerInch, float64(d.Height())/pointsPerInch, fill(i))
		if o.labels {
			fmt.Fprintf(&buf, ", label=\"%d\"", i)
		}
		if visible != nil && !visible[i] {
			buf.WriteString(", penwidth=0, fillcolor=\"#cccccc\"")
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT lays out a DOT graph with neato, which keeps pinned nodes in
// place, and renders it in the given format (graphviz.SVG, graphviz.PNG).
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
