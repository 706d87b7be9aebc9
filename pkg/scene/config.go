package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
)

// Default values applied by [Config.SetDefaults].
const (
	DefaultFrom       = -10.0
	DefaultTo         = 10.0
	DefaultPoints     = 18
	DefaultWidth      = 600
	DefaultHeight     = 400
	DefaultRadius     = 4.0
	DefaultFrameRate  = 30
	DefaultDt         = 0.05
	DefaultTMax       = 10.0
	DefaultBackground = "#ffffff"
	DefaultForeground = "#1f2933"
)

// Config is the declarative form of a scene, decoded from TOML files or
// JSON request bodies.
type Config struct {
	Name       string             `toml:"name" json:"name,omitempty"`
	Vars       []string           `toml:"vars" json:"vars,omitempty"`
	Dimensions []DimensionConfig  `toml:"dimension" json:"dimensions"`
	Sample     SampleConfig       `toml:"sample" json:"sample"`
	Canvas     CanvasConfig       `toml:"canvas" json:"canvas"`
	Timing     TimingConfig       `toml:"timing" json:"timing"`
	Params     map[string]float64 `toml:"params" json:"params,omitempty"`
}

// DimensionConfig declares one dimension. The first transform constructs the
// field; the rest are appended in order.
type DimensionConfig struct {
	Transforms []string `toml:"transforms" json:"transforms"`
	Anchor     float64  `toml:"anchor" json:"anchor,omitempty"`
}

// SampleConfig selects the dimension to materialize and its range.
type SampleConfig struct {
	Dimension int     `toml:"dimension" json:"dimension"`
	From      float64 `toml:"from" json:"from"`
	To        float64 `toml:"to" json:"to"`
	Points    int     `toml:"points" json:"points"`
}

// CanvasConfig places markers on the output surface. Markers are drawn at
// (OriginX + value, OriginY + AxisY). A nil origin defaults to the centre.
type CanvasConfig struct {
	Width      int      `toml:"width" json:"width"`
	Height     int      `toml:"height" json:"height"`
	OriginX    *float64 `toml:"origin_x" json:"origin_x,omitempty"`
	OriginY    *float64 `toml:"origin_y" json:"origin_y,omitempty"`
	AxisY      float64  `toml:"axis_y" json:"axis_y"`
	Radius     float64  `toml:"radius" json:"radius"`
	Background string   `toml:"background" json:"background"`
	Foreground string   `toml:"foreground" json:"foreground"`
}

// TimingConfig drives the redraw loop. With Loop false a renderer draws one
// frame and stops.
type TimingConfig struct {
	FrameRate int     `toml:"frame_rate" json:"frame_rate"`
	Loop      bool    `toml:"loop" json:"loop"`
	Dt        float64 `toml:"dt" json:"dt"`
	TMax      float64 `toml:"tmax" json:"tmax"`
}

// Default returns the cosine scene: one dimension sampled on [-10, 10] at 18
// points, passed through cos(x) and then scaled by 250, drawn as dots along
// the horizontal axis of a centred 600x400 canvas.
func Default() Config {
	cfg := Config{
		Name: "cosine",
		Vars: []string{"x"},
		Dimensions: []DimensionConfig{
			{Transforms: []string{"cos(x)", "250*x"}},
		},
		Sample: SampleConfig{From: DefaultFrom, To: DefaultTo, Points: DefaultPoints},
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero-valued fields. It is idempotent.
func (c *Config) SetDefaults() {
	if len(c.Vars) == 0 {
		c.Vars = DefaultVars(len(c.Dimensions))
	}
	if c.Sample.Points == 0 {
		c.Sample.Points = DefaultPoints
	}
	if c.Sample.From == 0 && c.Sample.To == 0 {
		c.Sample.From, c.Sample.To = DefaultFrom, DefaultTo
	}
	if c.Canvas.Width == 0 {
		c.Canvas.Width = DefaultWidth
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = DefaultHeight
	}
	if c.Canvas.OriginX == nil {
		x := float64(c.Canvas.Width) / 2
		c.Canvas.OriginX = &x
	}
	if c.Canvas.OriginY == nil {
		y := float64(c.Canvas.Height) / 2
		c.Canvas.OriginY = &y
	}
	if c.Canvas.Radius == 0 {
		c.Canvas.Radius = DefaultRadius
	}
	if c.Canvas.Background == "" {
		c.Canvas.Background = DefaultBackground
	}
	if c.Canvas.Foreground == "" {
		c.Canvas.Foreground = DefaultForeground
	}
	if c.Timing.FrameRate == 0 {
		c.Timing.FrameRate = DefaultFrameRate
	}
	if c.Timing.Dt == 0 {
		c.Timing.Dt = DefaultDt
	}
	if c.Timing.TMax == 0 {
		c.Timing.TMax = DefaultTMax
	}
}

// Validate checks structural consistency. Expressions are checked by [Build].
func (c *Config) Validate() error {
	n := len(c.Dimensions)
	if n == 0 {
		return fverrors.ConfigurationError("scene declares no dimensions")
	}
	if len(c.Vars) != n {
		return fverrors.ConfigurationError("scene declares %d vars for %d dimensions", len(c.Vars), n)
	}
	for i, d := range c.Dimensions {
		if len(d.Transforms) == 0 {
			return fverrors.ConfigurationError("dimension %d has no transforms", i)
		}
	}
	if c.Sample.Dimension < 0 || c.Sample.Dimension >= n {
		return fverrors.ConfigurationError("sample dimension %d out of range [0, %d)", c.Sample.Dimension, n)
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fverrors.ConfigurationError("canvas size %dx%d must not be negative", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Radius < 0 {
		return fverrors.ConfigurationError("marker radius %v must not be negative", c.Canvas.Radius)
	}
	if c.Timing.FrameRate < 0 {
		return fverrors.ConfigurationError("frame rate %d must not be negative", c.Timing.FrameRate)
	}
	if c.Timing.Dt < 0 || c.Timing.TMax < 0 {
		return fverrors.ConfigurationError("dt and tmax must not be negative")
	}
	for name := range c.Params {
		if name == ClockParam {
			return fverrors.ConfigurationError("parameter %q is reserved for the scene clock", name)
		}
		for _, v := range c.Vars {
			if v == name {
				return fverrors.ConfigurationError("parameter %q shadows a variable", name)
			}
		}
	}
	return nil
}

// DefaultVars names the variables of an n-dimensional scene: x, y, z for up
// to three dimensions, x0..x(n-1) beyond.
func DefaultVars(n int) []string {
	switch {
	case n <= 0:
		return nil
	case n <= 3:
		return []string{"x", "y", "z"}[:n]
	}
	vars := make([]string, n)
	for i := range vars {
		vars[i] = fmt.Sprintf("x%d", i)
	}
	return vars
}

// Load reads a TOML scene file and applies defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, fverrors.Wrap(fverrors.ErrCodeFileNotFound, err, "scene file %s not found", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read scene: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads a TOML scene and applies defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fverrors.Wrap(fverrors.ErrCodeInvalidScene, err, "decode scene")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fverrors.ConfigurationError("unknown scene keys: %s", strings.Join(keys, ", "))
	}
	cfg.SetDefaults()
	return cfg, nil
}

// DecodeJSON reads a JSON scene and applies defaults. Unknown fields are rejected.
func DecodeJSON(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fverrors.Wrap(fverrors.ErrCodeInvalidScene, err, "decode scene")
	}
	cfg.SetDefaults()
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
