// Package scene owns a transformation field together with the sampling,
// canvas and timing settings needed to draw it.
//
// A [Scene] replaces process-wide drawing state: the caller builds one from a
// [Config], asks it for frames and advances its clock. Nothing in this
// package is global.
//
//	cfg, err := scene.Load("cosine.toml")
//	sc, err := scene.Build(cfg)
//	frame, err := sc.Frame()
//	for sc.Looping() {
//	    sc.Advance()
//	    frame, err = sc.Frame()
//	}
package scene

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/fieldviz/pkg/cache"
	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/expr"
	"github.com/matzehuels/fieldviz/pkg/field"
	"github.com/matzehuels/fieldviz/pkg/render"
)

// ClockParam is the expression parameter bound to the scene clock.
const ClockParam = "t"

// Scene is the owning context for one field.
type Scene struct {
	cfg   Config
	field *field.Field
	t     float64
}

// Build compiles cfg's expressions and constructs its field. Defaults are
// applied to a copy of cfg first.
func Build(cfg Config) (*Scene, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{cfg: cfg}

	initial := make([]field.Transform, len(cfg.Dimensions))
	for d, dim := range cfg.Dimensions {
		t, err := expr.Compile(dim.Transforms[0], cfg.Vars, s)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", d, err)
		}
		initial[d] = t
	}

	f, err := field.New(initial)
	if err != nil {
		return nil, err
	}

	for d, dim := range cfg.Dimensions {
		for _, src := range dim.Transforms[1:] {
			t, err := expr.Compile(src, cfg.Vars, s)
			if err != nil {
				return nil, fmt.Errorf("dimension %d: %w", d, err)
			}
			if _, err := f.AppendTransform(d, t); err != nil {
				return nil, fmt.Errorf("dimension %d: %w", d, err)
			}
		}
		if err := f.SetAnchor(d, dim.Anchor); err != nil {
			return nil, err
		}
	}

	s.field = f
	return s, nil
}

// Lookup resolves expression parameters: the clock and the [params] table.
func (s *Scene) Lookup(name string) (float64, bool) {
	if name == ClockParam {
		return s.t, true
	}
	v, ok := s.cfg.Params[name]
	return v, ok
}

// Config returns the scene's configuration with defaults applied.
func (s *Scene) Config() Config { return s.cfg }

// Field returns the scene's field.
func (s *Scene) Field() *field.Field { return s.field }

// Name returns the scene name.
func (s *Scene) Name() string { return s.cfg.Name }

// SetSample replaces the sampled dimension and range. It does not
// materialize; range problems surface from the next [Scene.Frame].
func (s *Scene) SetSample(sample SampleConfig) error {
	if n := s.field.DimensionCount(); sample.Dimension < 0 || sample.Dimension >= n {
		return fverrors.ConfigurationError("sample dimension %d out of range [0, %d)", sample.Dimension, n)
	}
	s.cfg.Sample = sample
	return nil
}

// Materialize samples the configured dimension at the current clock value.
func (s *Scene) Materialize() ([]float64, error) {
	sm := s.cfg.Sample
	return s.field.Materialize(sm.Dimension, sm.From, sm.To, sm.Points)
}

// Frame materializes the configured dimension and places one marker per
// coordinate at (origin_x + value, origin_y + axis_y).
func (s *Scene) Frame() (render.Frame, error) {
	coords, err := s.Materialize()
	if err != nil {
		return render.Frame{}, err
	}
	return s.FrameFor(coords), nil
}

// FrameFor places markers for already materialized coordinates.
func (s *Scene) FrameFor(coords []float64) render.Frame {
	c := s.cfg.Canvas
	ox, oy := *c.OriginX, *c.OriginY

	markers := make([]render.Marker, len(coords))
	for i, v := range coords {
		markers[i] = render.Marker{X: ox + v, Y: oy + c.AxisY}
	}
	return render.Frame{
		Title:      s.cfg.Name,
		Width:      c.Width,
		Height:     c.Height,
		OriginX:    ox,
		OriginY:    oy,
		Radius:     c.Radius,
		Background: c.Background,
		Foreground: c.Foreground,
		Values:     coords,
		Markers:    markers,
	}
}

// T returns the clock value.
func (s *Scene) T() float64 { return s.t }

// SetT sets the clock value.
func (s *Scene) SetT(t float64) { s.t = t }

// Reset rewinds the clock to zero.
func (s *Scene) Reset() { s.t = 0 }

// Advance steps the clock by dt, wrapping to zero once it passes tmax.
func (s *Scene) Advance() {
	s.t += s.cfg.Timing.Dt
	if s.t > s.cfg.Timing.TMax {
		s.t = 0
	}
}

// Looping reports whether a renderer should keep redrawing after the first
// frame.
func (s *Scene) Looping() bool { return s.cfg.Timing.Loop }

// FrameInterval returns the delay between frames at the configured rate.
func (s *Scene) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.cfg.Timing.FrameRate)
}

// Hash returns a content hash of the configuration and clock, suitable as a
// cache key component.
func (s *Scene) Hash() string {
	data, err := json.Marshal(struct {
		Config Config  `json:"config"`
		T      float64 `json:"t"`
	}{s.cfg, s.t})
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
