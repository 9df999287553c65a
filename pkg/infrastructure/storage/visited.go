package storage

import (
	"sync"

	"github.com/WangYihang/web-crawler/pkg/domain/repository"
	"github.com/bits-and-blooms/bloom/v3"
	mapset "github.com/deckarep/golang-set/v2"
)

// Config holds Bloom filter configuration
type Config struct {
	Size              uint
	FalsePositiveRate float64
}

// DefaultConfig sizes the filter for a typical crawl limit
var DefaultConfig = Config{Size: 100000, FalsePositiveRate: 0.001}

// VisitedSet implements repository.VisitedSet. A Bloom filter answers most
// misses; the exact set settles possible hits.
type VisitedSet struct {
	filter *bloom.BloomFilter
	exact  mapset.Set[string]
	mu     sync.RWMutex
}

// NewVisitedSet creates an empty visited set
func NewVisitedSet(config Config) repository.VisitedSet {
	if config.Size == 0 || config.FalsePositiveRate <= 0 || config.FalsePositiveRate >= 1 {
		config = DefaultConfig
	}
	return &VisitedSet{
		filter: bloom.NewWithEstimates(config.Size, config.FalsePositiveRate),
		exact:  mapset.NewThreadUnsafeSet[string](),
	}
}

// Contains checks if a URL has been visited
func (v *VisitedSet) Contains(url string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.filter.TestString(url) {
		return false
	}
	return v.exact.Contains(url)
}

// Add marks a URL as visited
func (v *VisitedSet) Add(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter.AddString(url)
	v.exact.Add(url)
}

// Len returns the number of visited URLs
func (v *VisitedSet) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.exact.Cardinality()
}

// Snapshot returns a copy of the visited URLs
func (v *VisitedSet) Snapshot() mapset.Set[string] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.exact.Clone()
}

// Clear forgets every visited URL
func (v *VisitedSet) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter.ClearAll()
	v.exact.Clear()
}
