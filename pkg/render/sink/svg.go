package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/fieldviz/pkg/render"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	axis  bool
	title bool
}

func WithAxis() SVGOption  { return func(r *svgRenderer) { r.axis = true } }
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

func RenderSVG(f render.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		f.Width, f.Height, f.Width, f.Height)

	if r.title && f.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(f.Title))
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(f.Background))

	if r.axis {
		renderAxis(&buf, f)
	}

	fmt.Fprintf(&buf, `  <g class="markers" fill="%s">`+"\n", html.EscapeString(f.Foreground))
	for i, m := range f.Markers {
		if !finite(m.X) || !finite(m.Y) {
			continue
		}
		fmt.Fprintf(&buf, `    <circle id="m%d" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", i, m.X, m.Y, f.Radius)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderAxis draws the horizontal line the markers sit on, or the origin
// line when there are no markers.
func renderAxis(buf *bytes.Buffer, f render.Frame) {
	y := f.OriginY
	if len(f.Markers) > 0 && finite(f.Markers[0].Y) {
		y = f.Markers[0].Y
	}
	fmt.Fprintf(buf, `  <line class="axis" x1="0" y1="%.2f" x2="%d" y2="%.2f" stroke="%s" stroke-opacity="0.3"/>`+"\n",
		y, f.Width, y, html.EscapeString(f.Foreground))
	fmt.Fprintf(buf, `  <line class="origin" x1="%.2f" y1="0" x2="%.2f" y2="%d" stroke="%s" stroke-opacity="0.15"/>`+"\n",
		f.OriginX, f.OriginX, f.Height, html.EscapeString(f.Foreground))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
