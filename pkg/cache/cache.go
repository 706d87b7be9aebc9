// Package cache stores rendered frames and artifacts keyed by scene content.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache
//
// # Keys
//
// A [Keyer] derives keys from a scene hash (see scene.Scene.Hash) and the
// output options, so any change to the scene, its clock or the requested
// format produces a new key. [ScopedKeyer] prefixes every key, letting
// several deployments share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A ttl of zero means the entry
// never expires. Get reports a miss with hit == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// FrameKey identifies the materialized frame of a scene.
	FrameKey(sceneHash string) string

	// ArtifactKey identifies one rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Axis     bool    `json:"axis,omitempty"`
	Title    bool    `json:"title,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) FrameKey(sceneHash string) string {
	return hashKey("frame", sceneHash)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, sceneHash, opts)
}
