// Package chain renders the transform chains of a field as Graphviz
// diagrams.
//
// # Overview
//
// Each dimension becomes one left-to-right row: an input node for the
// sampled value, one box per transform in append order, and an output node.
// Dimensions are stacked top to bottom so a reader can compare chains.
//
// # Usage
//
//	dot := chain.ToDOT(sc.Field(), chain.Options{Vars: cfg.Vars})
//	svg, err := chain.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: stage labels include arity, and input nodes show the
//     dimension's anchor value
//   - Highlight: dimension whose row is drawn emphasised, usually the sampled
//     one; -1 for none
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. The DOT source from [ToDOT] can also be fed to external tools.
package chain
