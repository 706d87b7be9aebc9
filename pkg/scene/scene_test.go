package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
)

func TestDefaultFrame(t *testing.T) {
	sc, err := Build(Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f, err := sc.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if len(f.Values) != 18 || len(f.Markers) != 18 {
		t.Fatalf("got %d values and %d markers, want 18", len(f.Values), len(f.Markers))
	}

	step := 20.0 / 17
	for i, v := range f.Values {
		want := 250 * math.Cos(-10+float64(i)*step)
		if i == 17 {
			want = 250 * math.Cos(10)
		}
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("Values[%d] = %v, want %v", i, v, want)
		}
		m := f.Markers[i]
		if math.Abs(m.X-(300+v)) > 1e-12 || m.Y != 200 {
			t.Errorf("Markers[%d] = %v, want (%v, 200)", i, m, 300+v)
		}
	}

	if f.Width != 600 || f.Height != 400 || f.Title != "cosine" {
		t.Errorf("frame = %dx%d %q", f.Width, f.Height, f.Title)
	}
	if sc.Looping() {
		t.Error("default scene should draw once")
	}
}

func TestDecode(t *testing.T) {
	src := `
name = "wave"
vars = ["x", "y"]

[[dimension]]
transforms = ["x + a*sin(t)", "2*x"]

[[dimension]]
transforms = ["y"]
anchor = 1.5

[sample]
dimension = 0
from = 0
to = 1
points = 3

[params]
a = 10
`
	cfg, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(cfg.Dimensions) != 2 || cfg.Dimensions[1].Anchor != 1.5 {
		t.Fatalf("dimensions = %+v", cfg.Dimensions)
	}
	if cfg.Canvas.Width != DefaultWidth || *cfg.Canvas.OriginX != 300 {
		t.Error("defaults not applied")
	}

	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := sc.Field().Anchors(); got[1] != 1.5 {
		t.Errorf("Anchors() = %v", got)
	}

	sc.SetT(math.Pi / 2)
	coords, err := sc.Materialize()
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	want := []float64{20, 21, 22}
	for i := range want {
		if math.Abs(coords[i]-want[i]) > 1e-9 {
			t.Errorf("coords[%d] = %v, want %v", i, coords[i], want[i])
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code fverrors.Code
	}{
		{"syntax", `name = `, fverrors.ErrCodeInvalidScene},
		{"unknown key", "[[dimension]]\ntransforms = [\"x\"]\ncolour = 3\n", fverrors.ErrCodeConfiguration},
		{"wrong type", `vars = 3`, fverrors.ErrCodeInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if got := fverrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	cfg, err := DecodeJSON(strings.NewReader(`{"dimensions":[{"transforms":["x*x"]}],"sample":{"from":-2,"to":2,"points":5}}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	coords, err := sc.Materialize()
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if coords[0] != 4 || coords[2] != 0 || coords[4] != 4 {
		t.Errorf("coords = %v", coords)
	}

	_, err = DecodeJSON(strings.NewReader(`{"dimensions":[],"bogus":1}`))
	if !fverrors.Is(err, fverrors.ErrCodeInvalidScene) {
		t.Errorf("unknown field error = %v, want INVALID_SCENE", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   fverrors.Code
	}{
		{"no dimensions", func(c *Config) { c.Dimensions = nil }, fverrors.ErrCodeConfiguration},
		{"empty chain", func(c *Config) { c.Dimensions[0].Transforms = nil }, fverrors.ErrCodeConfiguration},
		{"vars mismatch", func(c *Config) { c.Vars = []string{"x", "y"} }, fverrors.ErrCodeConfiguration},
		{"sample dim", func(c *Config) { c.Sample.Dimension = 1 }, fverrors.ErrCodeConfiguration},
		{"bad expression", func(c *Config) { c.Dimensions[0].Transforms[1] = "250*" }, fverrors.ErrCodeInvalidExpression},
		{"unknown function", func(c *Config) { c.Dimensions[0].Transforms[0] = "sec(x)" }, fverrors.ErrCodeInvalidExpression},
		{"clock param", func(c *Config) { c.Params = map[string]float64{"t": 1} }, fverrors.ErrCodeConfiguration},
		{"shadowing param", func(c *Config) { c.Params = map[string]float64{"x": 1} }, fverrors.ErrCodeConfiguration},
		{"negative radius", func(c *Config) { c.Canvas.Radius = -1 }, fverrors.ErrCodeConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Dimensions = []DimensionConfig{{Transforms: []string{"cos(x)", "250*x"}}}
			tt.mutate(&cfg)
			_, err := Build(cfg)
			if got := fverrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestClock(t *testing.T) {
	cfg := Default()
	cfg.Timing.Dt = 0.5
	cfg.Timing.TMax = 1
	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var got []float64
	for range 4 {
		sc.Advance()
		got = append(got, sc.T())
	}
	want := []float64{0.5, 1, 0, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("after %d steps T() = %v, want %v", i+1, got[i], want[i])
		}
	}

	sc.SetT(7)
	sc.Reset()
	if sc.T() != 0 {
		t.Errorf("Reset() left T() = %v", sc.T())
	}
	if got := sc.FrameInterval(); got.Milliseconds() != 33 {
		t.Errorf("FrameInterval() = %v, want ~33ms", got)
	}
}

func TestClockDrivesExpressions(t *testing.T) {
	cfg := Default()
	cfg.Dimensions = []DimensionConfig{{Transforms: []string{"x + t"}}}
	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	before, _ := sc.Materialize()
	first := before[0]
	sc.SetT(3)
	after, _ := sc.Materialize()
	if after[0] != first+3 {
		t.Errorf("coords[0] = %v after t=3, want %v", after[0], first+3)
	}
}

func TestSetSample(t *testing.T) {
	sc, err := Build(Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := sc.SetSample(SampleConfig{Dimension: 0, From: 0, To: math.Pi, Points: 3}); err != nil {
		t.Fatalf("SetSample: %v", err)
	}
	coords, err := sc.Materialize()
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if math.Abs(coords[0]-250) > 1e-9 || math.Abs(coords[2]+250) > 1e-9 {
		t.Errorf("coords = %v, want [250 ~0 -250]", coords)
	}

	if err := sc.SetSample(SampleConfig{Dimension: 2, Points: 3}); !fverrors.Is(err, fverrors.ErrCodeConfiguration) {
		t.Errorf("out-of-range SetSample error = %v, want CONFIGURATION", err)
	}

	_ = sc.SetSample(SampleConfig{Dimension: 0, From: 0, To: 1, Points: 1})
	if _, err := sc.Frame(); !fverrors.Is(err, fverrors.ErrCodeDomain) {
		t.Errorf("Frame() with 1 point error = %v, want DOMAIN", err)
	}
}

func TestHash(t *testing.T) {
	a, _ := Build(Default())
	b, _ := Build(Default())
	if a.Hash() == "" || a.Hash() != b.Hash() {
		t.Error("equal scenes should hash equally")
	}

	b.SetT(1)
	if a.Hash() == b.Hash() {
		t.Error("clock should change the hash")
	}

	cfg := Default()
	cfg.Sample.Points = 19
	c, _ := Build(cfg)
	if a.Hash() == c.Hash() {
		t.Error("sample points should change the hash")
	}
}

func TestLoad(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !fverrors.Is(err, fverrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	path := filepath.Join(t.TempDir(), "s.toml")
	if err := os.WriteFile(path, []byte("[[dimension]]\ntransforms = [\"-x\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Vars) != 1 || cfg.Vars[0] != "x" {
		t.Errorf("Vars = %v, want [x]", cfg.Vars)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf strings.Builder
	if err := Encode(&buf, Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	cfg, err := Decode(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Decode(Encode(Default())): %v\n%s", err, buf.String())
	}
	if cfg.Name != "cosine" || cfg.Dimensions[0].Transforms[1] != "250*x" {
		t.Errorf("round trip lost data: %+v", cfg)
	}
}

func TestExampleScenes(t *testing.T) {
	paths, err := filepath.Glob("../../examples/scenes/*.toml")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example scenes")
	}
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			cfg, err := Load(p)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			sc, err := Build(cfg)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if _, err := sc.Frame(); err != nil {
				t.Errorf("Frame: %v", err)
			}
		})
	}
}

func TestDefaultVars(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "x"},
		{3, "x,y,z"},
		{4, "x0,x1,x2,x3"},
	}
	for _, tt := range tests {
		if got := strings.Join(DefaultVars(tt.n), ","); got != tt.want {
			t.Errorf("DefaultVars(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
