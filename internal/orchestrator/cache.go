package orchestrator

import (
	"context"
	"crypto/sha256"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"lifesync/internal/model"
	"lifesync/internal/provider"
)

// cacheKey identifies one cached call. The source name is part of it
// because stored ids are namespaced with it.
type cacheKey struct {
	source  string
	kind    model.Kind
	adapter provider.Adapter
	cred    [sha256.Size]byte
}

// keyFor returns the cache key for c. Adapters whose dynamic type is not
// comparable have no stable identity and are never cached.
func keyFor(c call) (cacheKey, bool) {
	if !reflect.TypeOf(c.adapter).Comparable() {
		return cacheKey{}, false
	}
	return cacheKey{
		source:  c.name,
		kind:    c.kind,
		adapter: c.adapter,
		cred:    credentialFingerprint(c.cred),
	}, true
}

// credentialFingerprint hashes every credential field, length-prefixed so
// distinct credentials never collide by concatenation.
func credentialFingerprint(cred provider.Credential) [sha256.Size]byte {
	h := sha256.New()
	field := func(s string) { fmt.Fprintf(h, "%d:%s;", len(s), s) }
	field(cred.Token)
	field(cred.Domain)
	for _, k := range slices.Sorted(maps.Keys(cred.Params)) {
		field(k)
		field(cred.Params[k])
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// storedOutcome is written once and never modified; a refresh replaces it.
type storedOutcome struct {
	at  time.Time
	out outcome
}

// cacheEntry guards one key. lock is a one-slot semaphore so waiting can
// be abandoned when the caller's context ends.
type cacheEntry struct {
	lock   chan struct{}
	stored *storedOutcome
}

func (e *cacheEntry) acquire(ctx context.Context) error {
	select {
	case e.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *cacheEntry) release() {
	<-e.lock
}

type resultCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
}

func newResultCache(ttl time.Duration, now func() time.Time) *resultCache {
	return &resultCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[cacheKey]*cacheEntry),
	}
}

func (c *resultCache) entry(k cacheKey) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		c.pruneLocked()
		e = &cacheEntry{lock: make(chan struct{}, 1)}
		c.entries[k] = e
	}
	return e
}

// pruneLocked drops idle entries whose stored outcome has expired, so
// replaced adapters and rotated credentials do not accumulate. Entries
// never stored may be about to be acquired and are kept. The caller must
// hold c.mu.
func (c *resultCache) pruneLocked() {
	for k, e := range c.entries {
		select {
		case e.lock <- struct{}{}:
		default:
			continue
		}
		if e.stored != nil && c.now().Sub(e.stored.at) >= c.ttl {
			delete(c.entries, k)
		}
		e.release()
	}
}

// fresh returns the stored outcome if it is younger than the TTL.
// The caller must hold the entry lock.
func (c *resultCache) fresh(e *cacheEntry) (outcome, bool) {
	s := e.stored
	if s == nil || c.now().Sub(s.at) >= c.ttl {
		return outcome{}, false
	}
	out := s.out
	out.cached = true
	return out, true
}

// store replaces the entry's value. The caller must hold the entry lock.
func (c *resultCache) store(e *cacheEntry, out outcome) {
	e.stored = &storedOutcome{at: c.now(), out: out}
}
