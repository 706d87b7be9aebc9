package chain

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/fieldviz/pkg/field"
)

// Options configures chain diagram rendering.
type Options struct {
	// Vars names the input node of each dimension. Missing names fall back
	// to "dim N".
	Vars []string

	// Detailed adds arity and anchor information to labels.
	Detailed bool

	// Highlight is the dimension drawn emphasised, or -1.
	Highlight int
}

// ToDOT converts a field's transform chains to Graphviz DOT source.
func ToDOT(f *field.Field, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph chains {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")

	anchors := f.Anchors()
	for d := 0; d < f.DimensionCount(); d++ {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", d)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("dimension %d", d))
		if d == opts.Highlight {
			buf.WriteString("    style=bold;\n")
		} else {
			buf.WriteString("    style=dashed;\n")
		}

		in := fmt.Sprintf("d%d_in", d)
		fmt.Fprintf(&buf, "    %q [label=%q, shape=ellipse];\n", in, inputLabel(d, anchors[d], opts))

		prev := in
		for i, t := range f.Chain(d) {
			id := fmt.Sprintf("d%d_s%d", d, i)
			fmt.Fprintf(&buf, "    %q [label=%q];\n", id, stageLabel(t, opts.Detailed))
			fmt.Fprintf(&buf, "    %q -> %q;\n", prev, id)
			prev = id
		}

		out := fmt.Sprintf("d%d_out", d)
		fmt.Fprintf(&buf, "    %q [label=\"out\", shape=ellipse, fillcolor=lightgrey];\n", out)
		fmt.Fprintf(&buf, "    %q -> %q;\n", prev, out)
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inputLabel(dim int, anchor float64, opts Options) string {
	name := fmt.Sprintf("dim %d", dim)
	if dim < len(opts.Vars) && opts.Vars[dim] != "" {
		name = opts.Vars[dim]
	}
	if !opts.Detailed {
		return name
	}
	return name + "\nanchor: " + strconv.FormatFloat(anchor, 'g', -1, 64)
}

func stageLabel(t field.Transform, detailed bool) string {
	if !detailed {
		return t.Name()
	}
	return strings.Join([]string{t.Name(), fmt.Sprintf("arity: %d", t.Arity())}, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox drops Graphviz's pt units and offsets so the diagram
// scales like the other SVG outputs.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
