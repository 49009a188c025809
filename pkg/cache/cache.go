// Package cache provides pluggable byte caches for expensive pipeline
// stages. Per-lane layout results are cached keyed by the lane's
// content hash, so re-running a merge after editing one lane only pays
// for the lanes that changed.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact kind.
const (
	TTLLayout   = 24 * time.Hour
	TTLDocument = 7 * 24 * time.Hour
)

// Cache stores opaque byte blobs with optional expiry.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LaneKeyOpts are the layout parameters that affect a lane's computed
// geometry. Two runs with the same lane content but different options
// must not share a cache entry.
type LaneKeyOpts struct {
	Engine  string
	Ranksep float64
	Nodesep float64
}

// DocumentKeyOpts distinguish exported artifacts of the same assembly.
type DocumentKeyOpts struct {
	Format string
}

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// LaneKey generates a key for a laid-out lane diagram.
	LaneKey(laneHash string, opts LaneKeyOpts) string

	// DocumentKey generates a key for an exported document.
	DocumentKey(assemblyHash string, opts DocumentKeyOpts) string
}

// DefaultKeyer hashes all inputs into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LaneKey generates a key for a laid-out lane diagram.
func (k *DefaultKeyer) LaneKey(laneHash string, opts LaneKeyOpts) string {
	return hashKey("lane", laneHash, opts)
}

// DocumentKey generates a key for an exported document.
func (k *DefaultKeyer) DocumentKey(assemblyHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", assemblyHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
