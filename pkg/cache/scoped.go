package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without colliding.
//
// Example usage:
//
//	// Server instance sharing Redis with others
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "labyrinth:prod:")
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

// MazeKey generates a prefixed maze key.
func (k *ScopedKeyer) MazeKey(opts MazeKeyOpts) string {
	return k.prefix + k.inner.MazeKey(opts)
}

// SolutionKey generates a prefixed solution key.
func (k *ScopedKeyer) SolutionKey(mazeHash string, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(mazeHash, opts)
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(solutionKey string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(solutionKey, opts)
}
