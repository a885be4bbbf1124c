package iso8211

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/iso8211/internal/ddftest"
)

func TestCatalogCache_SharedAcrossModules(t *testing.T) {
	cache := NewCatalogCache(4)
	opts := DefaultOpenOptions()
	opts.CatalogCache = cache

	first := openTest(t, opts, pairRecord(1, "AAAA1BBBB1AAAA2BBBB2"))
	second := openTest(t, opts, pairRecord(2, "AAAA3BBBB3AAAA4BBBB4"))
	assert.Same(t, first.Catalog(), second.Catalog())

	other := ddftest.WriteFile(t, ddftest.Header(ddftest.FileControl, ddftest.RecordID))
	third, err := OpenWithOptions(other, opts)
	require.NoError(t, err)
	defer third.Close()
	assert.NotSame(t, first.Catalog(), third.Catalog())

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 2, stats.Misses)
	assert.Equal(t, 4, stats.MaxEntries)

	rec, err := second.ReadRecord()
	require.NoError(t, err)
	s, ok := rec.StringSubfield("DATA", 0, "A", 1)
	assert.True(t, ok)
	assert.Equal(t, "AAAA4", s)
}

func TestCatalogCache_Eviction(t *testing.T) {
	cache := NewCatalogCache(2)
	a, b, c := &Catalog{}, &Catalog{}, &Catalog{}

	cache.Add(1, a)
	cache.Add(2, b)
	got, err := cache.Get(1, nil)
	require.NoError(t, err)
	assert.Same(t, a, got)

	// 2 is now least recently used
	cache.Add(3, c)
	assert.Equal(t, 2, cache.Stats().Entries)

	loads := 0
	loader := func() (*Catalog, error) {
		loads++
		return &Catalog{}, nil
	}
	_, err = cache.Get(1, loader)
	require.NoError(t, err)
	assert.Zero(t, loads)
	_, err = cache.Get(2, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)

	// 3 was evicted to make room for 2
	assert.Same(t, a, cache.Add(1, &Catalog{}), "existing entry wins")

	cache.Remove(1)
	assert.Equal(t, 1, cache.Stats().Entries)
	cache.Clear()
	assert.Zero(t, cache.Stats().Entries)
}

func TestCatalogCache_FailedLoadNotCached(t *testing.T) {
	cache := NewCatalogCache(0)
	boom := errors.New("boom")

	_, err := cache.Get(9, func() (*Catalog, error) { return nil, boom })
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Zero(t, cache.Stats().Entries)

	got, err := cache.Get(9, func() (*Catalog, error) { return &Catalog{}, nil })
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCatalogCache_KeyedByOverlapCheck(t *testing.T) {
	header := ddftest.Header(ddftest.FileControl, ddftest.RecordID)
	// move the second descriptor onto the first
	copy(header[LeaderSize+13+8:], "00000")
	path := ddftest.WriteFile(t, header)

	cache := NewCatalogCache(0)
	lax := DefaultOpenOptions()
	lax.CheckOverlaps = false
	lax.CatalogCache = cache
	m, err := OpenWithOptions(path, lax)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	strict := DefaultOpenOptions()
	strict.CatalogCache = cache
	_, err = OpenWithOptions(path, strict)
	var fe *ErrFormat
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Contains(t, fe.Reason, "overlaps")
	assert.Equal(t, 1, cache.Stats().Entries)
}
