package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
	axis  bool
}

// WithScale sets the PNG scale factor (default 1.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGAxis draws the marker axis and the origin line.
func WithPNGAxis() PNGOption {
	return func(r *pngRenderer) { r.axis = true }
}

// RenderPNG draws the frame on a gogpu/gg software canvas and encodes it as PNG.
func RenderPNG(f render.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || !finite(r.scale) {
		return nil, fverrors.New(fverrors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}

	w := int(math.Ceil(float64(f.Width) * r.scale))
	h := int(math.Ceil(float64(f.Height) * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fverrors.New(fverrors.ErrCodeInvalidInput, "canvas size %dx%d is empty", f.Width, f.Height)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(f.Background))
	dc.Scale(r.scale, r.scale)

	if r.axis {
		y := f.OriginY
		if len(f.Markers) > 0 && finite(f.Markers[0].Y) {
			y = f.Markers[0].Y
		}
		dc.SetRGBA(0.5, 0.5, 0.5, 0.4)
		dc.SetLineWidth(1)
		dc.DrawLine(0, y, float64(f.Width), y)
		dc.DrawLine(f.OriginX, 0, f.OriginX, float64(f.Height))
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke axis: %w", err)
		}
	}

	dc.SetHexColor(f.Foreground)
	drawn := 0
	for _, m := range f.Markers {
		if !finite(m.X) || !finite(m.Y) {
			continue
		}
		dc.DrawCircle(m.X, m.Y, f.Radius)
		drawn++
	}
	if drawn > 0 {
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill markers: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
