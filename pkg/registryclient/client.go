// Package registryclient adapts an external registry CLI ("crane") as a set
// of Go operations, with per-batch memoization of digest and tag-list
// lookups.
package registryclient

import (
	"context"

	"github.com/hemzaz/tugboat/pkg/cache"
)

// Client is the Registry Client contract the scheduler depends on. Every
// method may suspend while the underlying subprocess runs; many may be
// in flight concurrently.
type Client interface {
	// Login authenticates the current process against registryURL.
	// Failure is fatal for the run.
	Login(ctx context.Context, registryURL, user, password string) error

	// GetDigest returns the image's content digest. ok is false (with a
	// nil error) when the remote reports the image absent.
	GetDigest(ctx context.Context, imageRef string, skipTLSVerify bool) (digest string, ok bool, err error)

	// GetImageTags lists the tags available for imageRef, excluding
	// digest-only pseudo-tags.
	GetImageTags(ctx context.Context, imageRef string) ([]string, error)

	// Copy transfers imageRef srcRef to dstRef.
	Copy(ctx context.Context, srcRef, dstRef string, srcSkipTLSVerify, dstSkipTLSVerify bool) error

	// ResetCache empties all memoized digest and tag-list entries. Called
	// by the executor between batches.
	ResetCache()
}

type digestKey struct {
	imageRef      string
	skipTLSVerify bool
}

type digestEntry struct {
	digest string
	ok     bool
}

// memoCache holds the per-batch memoization state: digest and tag-list
// lookups are cached for the duration of one batch and reset wholesale
// between batches.
type memoCache struct {
	digests *cache.LRU[digestKey, digestEntry]
	tags    *cache.LRU[string, []string]
}

func newMemoCache(capacity int) *memoCache {
	if capacity <= 0 {
		capacity = 4096
	}
	return &memoCache{
		digests: cache.NewLRU[digestKey, digestEntry](capacity),
		tags:    cache.NewLRU[string, []string](capacity),
	}
}

func (m *memoCache) reset() {
	m.digests.Clear()
	m.tags.Clear()
}
