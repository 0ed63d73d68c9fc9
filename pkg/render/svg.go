package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

const svgStyle = `
    .item { stroke: #ffffff; stroke-width: 1; }
    .item.dim { opacity: 0.35; }
    .label { font: 12px sans-serif; fill: #ffffff; text-anchor: middle; dominant-baseline: central; }
    .viewport { fill: none; stroke: #e4572e; stroke-width: 2; stroke-dasharray: 6 4; }`

// RenderSVG draws the layout at its natural size.
func RenderSVG(l *grid.Layout, opts ...Option) []byte {
	o := newOptions(opts)
	w, h := l.Size()
	visible := o.visible(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	for i, r := range l.Rects {
		if r.Degenerate() {
			continue
		}
		d := o.decorated(l, i)
		class := "item"
		if visible != nil && !visible[i] {
			class = "item dim"
		}
		fmt.Fprintf(&buf, `  <rect id="item-%d" class="%s" x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s"/>`+"\n",
			i, class, d.Left, d.Top, d.Width(), d.Height(), fill(i))
		if o.labels {
			fmt.Fprintf(&buf, `  <text class="label" x="%d" y="%d">%d</text>`+"\n",
				d.Left+d.Width()/2, d.Top+d.Height()/2, i)
		}
	}

	if o.viewport != nil {
		vp := grid.Window(l.Axis(), o.viewport.offset, o.viewport.extent, l.CrossExtent)
		fmt.Fprintf(&buf, `  <rect class="viewport" x="%d" y="%d" width="%d" height="%d"/>`+"\n",
			vp.Left, vp.Top, vp.Width(), vp.Height())
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
