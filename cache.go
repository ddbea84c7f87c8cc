package marey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/theoremus-urban-solutions/marey/wire"
)

type cachedResponse struct {
	body        []byte
	contentType string
}

// DiagramCache memoizes encoded diagrams by a digest of their inputs. Once full
// it evicts the oldest entry.
type DiagramCache struct {
	mu            sync.Mutex
	maxEntries    int
	responseCache map[string]cachedResponse
	order         []string
}

// NewDiagramCache creates a cache holding at most maxEntries responses.
// A non-positive size disables caching.
func NewDiagramCache(maxEntries int) *DiagramCache {
	return &DiagramCache{maxEntries: maxEntries, responseCache: map[string]cachedResponse{}}
}

// memoKey digests the canonical CBOR array of parts, so no two part lists share a key
func (dc *DiagramCache) memoKey(parts ...[]byte) (string, error) {
	if dc.maxEntries <= 0 {
		return "", nil
	}
	framed, err := wire.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(framed)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached response for key
func (dc *DiagramCache) Get(key string) (cachedResponse, bool) {
	if dc.maxEntries <= 0 {
		return cachedResponse{}, false
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	res, ok := dc.responseCache[key]
	return res, ok
}

// Put stores a response, evicting the oldest entries beyond the size limit
func (dc *DiagramCache) Put(key string, res cachedResponse) {
	if dc.maxEntries <= 0 {
		return
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if _, ok := dc.responseCache[key]; ok {
		dc.responseCache[key] = res
		return
	}
	dc.responseCache[key] = res
	dc.order = append(dc.order, key)
	for len(dc.order) > dc.maxEntries {
		delete(dc.responseCache, dc.order[0])
		dc.order = dc.order[1:]
	}
}

// Len reports the number of cached responses
func (dc *DiagramCache) Len() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.responseCache)
}
