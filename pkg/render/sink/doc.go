// Package sink provides output format renderers for scene frames.
//
// # Overview
//
// A "sink" turns a [render.Frame] into a final output format:
//
//   - SVG: one circle per marker, optional axis line and title
//   - PNG: raster output drawn with the gogpu/gg software canvas
//   - JSON: the materialized values and marker positions
//
// Basic usage:
//
//	svg := sink.RenderSVG(frame, sink.WithAxis(), sink.WithTitle())
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//	doc, err := sink.RenderJSON(frame)
//
// Markers with non-finite positions are skipped by the SVG and PNG sinks and
// reported as null by the JSON sink.
//
// [render.Frame]: github.com/matzehuels/fieldviz/pkg/render.Frame
package sink
