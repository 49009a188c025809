package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The hosted API gives each client namespace its own prefix so cached
// layouts never leak between tenants.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LaneKey generates a prefixed key for a laid-out lane diagram.
func (k *ScopedKeyer) LaneKey(laneHash string, opts LaneKeyOpts) string {
	return k.prefix + k.inner.LaneKey(laneHash, opts)
}

// DocumentKey generates a prefixed key for an exported document.
func (k *ScopedKeyer) DocumentKey(assemblyHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(assemblyHash, opts)
}
