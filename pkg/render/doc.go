// Package render defines the contract between a scene and the code that
// draws it.
//
// # Overview
//
// A [Frame] is everything a renderer needs to draw one redraw of a scene:
// the canvas size and colours, the coordinate origin, and one [Marker] per
// materialized coordinate with its position already translated into canvas
// space. Renderers never see the field itself.
//
// Output formats live in subpackages:
//
//   - [sink]: SVG, PNG (gogpu/gg software canvas) and JSON
//   - [chain]: Graphviz diagrams of a field's transform chains
//   - [term]: braille dot canvas for terminals
//
// # Usage
//
//	frame, err := sc.Frame()
//	svg := sink.RenderSVG(frame, sink.WithAxis())
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//
// [sink]: github.com/matzehuels/fieldviz/pkg/render/sink
// [chain]: github.com/matzehuels/fieldviz/pkg/render/chain
// [term]: github.com/matzehuels/fieldviz/pkg/render/term
package render
