package pipeline

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fieldviz/pkg/cache"
	"github.com/matzehuels/fieldviz/pkg/observability"
	"github.com/matzehuels/fieldviz/pkg/render"
	"github.com/matzehuels/fieldviz/pkg/scene"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent runs on different scenes.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer uses
// the default key scheme.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute materializes sc and renders every requested format.
func (r *Runner) Execute(ctx context.Context, sc *scene.Scene, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash := sc.Hash()
	result := &Result{SceneHash: hash}

	start := time.Now()
	frame, hit, err := r.frame(ctx, sc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}
	result.Frame = frame
	result.Stats.Points = len(frame.Values)
	result.Stats.MaterializeTime = time.Since(start)
	result.CacheInfo.FrameHit = hit

	r.Logger.Debug("materialized",
		"scene", sc.Name(),
		"points", len(frame.Values),
		"cached", hit,
		"duration", result.Stats.MaterializeTime)

	start = time.Now()
	artifacts, hit, err := r.render(ctx, sc, frame, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Debug("rendered",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Frame materializes sc without rendering. The bool reports a cache hit.
func (r *Runner) Frame(ctx context.Context, sc *scene.Scene, opts Options) (render.Frame, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return render.Frame{}, false, fmt.Errorf("invalid options: %w", err)
	}
	return r.frame(ctx, sc, sc.Hash(), opts)
}

func (r *Runner) frame(ctx context.Context, sc *scene.Scene, hash string, opts Options) (render.Frame, bool, error) {
	key := r.Keyer.FrameKey(hash)
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		} else if hit {
			if coords, err := decodeCoords(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "frame")
				return sc.FrameFor(coords), true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "frame")
	}

	sample := sc.Config().Sample
	hooks := observability.Pipeline()
	hooks.OnMaterializeStart(ctx, sc.Name(), sample.Dimension, sample.Points)
	start := time.Now()
	coords, err := sc.Materialize()
	hooks.OnMaterializeComplete(ctx, sc.Name(), len(coords), time.Since(start), err)
	if err != nil {
		return render.Frame{}, false, err
	}

	data := encodeCoords(coords)
	if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "frame", len(data))
	}
	return sc.FrameFor(coords), false, nil
}

func (r *Runner) render(ctx context.Context, sc *scene.Scene, f render.Frame, hash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, format)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, format)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	var renderErr error
	for _, format := range missing {
		data, err := Render(ctx, sc, f, format, opts)
		if err != nil {
			renderErr = fmt.Errorf("%s: %w", format, err)
			break
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, format, len(data))
		}
	}
	hooks.OnRenderComplete(ctx, missing, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, false, renderErr
	}
	return artifacts, false, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// encodeCoords stores coordinates as little-endian float64s so NaN and
// infinities survive the round trip.
func encodeCoords(coords []float64) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, coords)
	return buf.Bytes()
}

func decodeCoords(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("cached frame has %d bytes, not a multiple of 8", len(data))
	}
	coords := make([]float64, len(data)/8)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, coords); err != nil {
		return nil, err
	}
	return coords, nil
}
