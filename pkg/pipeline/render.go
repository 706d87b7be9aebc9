package pipeline

import (
	"context"

	"github.com/matzehuels/fieldviz/pkg/render"
	"github.com/matzehuels/fieldviz/pkg/render/chain"
	"github.com/matzehuels/fieldviz/pkg/render/sink"
	"github.com/matzehuels/fieldviz/pkg/scene"
)

// Render encodes one format. Frame formats draw f; chain formats describe
// the scene's field.
func Render(ctx context.Context, sc *scene.Scene, f render.Frame, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	switch format {
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
		if opts.Axis {
			pngOpts = append(pngOpts, sink.WithPNGAxis())
		}
		return sink.RenderPNG(f, pngOpts...)
	case FormatJSON:
		return sink.RenderJSON(f)
	case FormatDOT:
		return []byte(chainDOT(sc, opts)), nil
	case FormatChain:
		return chain.RenderSVG(ctx, chainDOT(sc, opts))
	default:
		return sink.RenderSVG(f, svgOptions(opts)...), nil
	}
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Axis {
		out = append(out, sink.WithAxis())
	}
	if opts.Title {
		out = append(out, sink.WithTitle())
	}
	return out
}

func chainDOT(sc *scene.Scene, opts Options) string {
	cfg := sc.Config()
	return chain.ToDOT(sc.Field(), chain.Options{
		Vars:      cfg.Vars,
		Detailed:  opts.Detailed,
		Highlight: cfg.Sample.Dimension,
	})
}
