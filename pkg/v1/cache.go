package iso8211

import (
	"container/list"
	"sync"

	"github.com/dgryski/go-farm"
	"github.com/pkg/errors"
)

// CatalogCache shares parsed schemas between modules, with LRU eviction.
//
// Catalogs are keyed by a fingerprint of the complete header record and the
// options that affect parsing, so two files share an entry only when their
// DDRs are byte-identical and were checked the same way. All cells of
// an S-57 exchange set carry the same DDR, so opening a few hundred cells
// parses it once.
//
// Example:
//
//	cache := iso8211.NewCatalogCache(64)
//	opts := iso8211.DefaultOpenOptions()
//	opts.CatalogCache = cache
//	for _, path := range cells {
//	    m, err := iso8211.OpenWithOptions(path, opts)
//	    // ...
//	}
type CatalogCache struct {
	maxEntries int
	entries    map[uint64]*catalogEntry
	lru        *list.List // most recent at front
	hits       int
	misses     int
	mu         sync.Mutex
}

// catalogKey fingerprints a header record. Catalogs parsed with and without
// the overlap check never share a key.
func catalogKey(header []byte, checkOverlaps bool) uint64 {
	var seed uint64
	if checkOverlaps {
		seed = 1
	}
	return farm.Hash64WithSeed(header, seed)
}

// catalogEntry tracks a cached catalog
type catalogEntry struct {
	key         uint64
	catalog     *Catalog
	element     *list.Element
	accessCount int
}

// NewCatalogCache creates a cache holding at most maxEntries catalogs.
// Zero means unlimited.
func NewCatalogCache(maxEntries int) *CatalogCache {
	return &CatalogCache{
		maxEntries: maxEntries,
		entries:    make(map[uint64]*catalogEntry),
		lru:        list.New(),
	}
}

// Get returns the catalog for key, calling loader on a miss.
//
// A failed load is not cached, so a later Get retries it.
func (c *CatalogCache) Get(key uint64, loader func() (*Catalog, error)) (*Catalog, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.hits++
		c.mu.Unlock()
		return entry.catalog, nil
	}
	c.misses++
	c.mu.Unlock()

	// Cache miss - parse outside the lock
	catalog, err := loader()
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return c.Add(key, catalog), nil
}

// Add stores catalog under key and returns the cached catalog, which is the
// existing one if another caller added the same key first.
func (c *CatalogCache) Add(key uint64, catalog *Catalog) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		return entry.catalog
	}

	if c.maxEntries > 0 {
		for c.lru.Len() >= c.maxEntries {
			c.evictLRU()
		}
	}

	entry := &catalogEntry{
		key:         key,
		catalog:     catalog,
		accessCount: 1,
	}
	entry.element = c.lru.PushFront(entry)
	c.entries[key] = entry
	return catalog
}

// evictLRU removes the least recently used catalog.
// Must be called with c.mu locked.
func (c *CatalogCache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*catalogEntry)
	c.lru.Remove(elem)
	delete(c.entries, entry.key)
}

// Remove explicitly removes a catalog from the cache.
func (c *CatalogCache) Remove(key uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.lru.Remove(entry.element)
		delete(c.entries, key)
	}
}

// Clear removes all catalogs from the cache.
func (c *CatalogCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[uint64]*catalogEntry)
	c.lru.Init()
}

// Stats returns cache statistics.
func (c *CatalogCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Entries:    len(c.entries),
		MaxEntries: c.maxEntries,
		Hits:       c.hits,
		Misses:     c.misses,
	}
}

// CacheStats holds cache performance metrics.
type CacheStats struct {
	Entries    int // Number of catalogs currently cached
	MaxEntries int // Capacity, 0 for unlimited
	Hits       int // Lookups served from the cache
	Misses     int // Lookups that had to parse
}
