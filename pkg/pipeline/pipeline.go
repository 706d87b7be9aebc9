// Package pipeline turns a scene into output artifacts.
//
// The CLI and the HTTP server share this package so both produce identical
// bytes for identical scenes, and both reuse cached work the same way.
//
// # Stages
//
//  1. Materialize: sample the scene's field and place markers on the canvas
//  2. Render: encode the frame (or the field's chain diagram) per format
//
// Each stage is cached independently, keyed by the scene hash, which covers
// the normalized config and the clock value.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, sc, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	    Axis:    true,
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fieldviz/pkg/cache"
	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0

	// DefaultTTL is how long cached frames and artifacts live.
	DefaultTTL = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatChain = "chain"
)

// Formats lists every supported output format in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT, FormatChain}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	Formats  []string `json:"formats,omitempty"`
	Axis     bool     `json:"axis,omitempty"`
	Title    bool     `json:"title,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // chain labels include arity and anchors

	// Refresh skips cache reads; results are still written back.
	Refresh bool          `json:"refresh,omitempty"`
	TTL     time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SceneHash is the cache identity of the scene at its current clock.
	SceneHash string

	// Frame is the materialized frame; Frame.Values are the coordinates.
	Frame render.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points          int
	MaterializeTime time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FrameHit  bool // coordinates came from cache
	RenderHit bool // every requested artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return fverrors.ValidateFormatName(format, Formats)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options and applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return fverrors.New(fverrors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if o.TTL < 0 {
		return fverrors.New(fverrors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero-valued options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns cache key options for one format. Options that do
// not affect a format's bytes are left out so they share entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Axis, k.Title = o.Axis, o.Title
	case FormatPNG:
		k.Axis, k.Scale = o.Axis, o.Scale
	case FormatDOT, FormatChain:
		k.Detailed = o.Detailed
	}
	return k
}

// ContentType returns the MIME type of a format's artifact.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatChain:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// Extension returns the file suffix for a format's artifact.
func Extension(format string) string {
	if format == FormatChain {
		return ".chain.svg"
	}
	return "." + format
}
