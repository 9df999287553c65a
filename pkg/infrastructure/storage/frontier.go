package storage

import (
	"sync"

	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/WangYihang/web-crawler/pkg/domain/repository"
	mapset "github.com/deckarep/golang-set/v2"
)

// Frontier implements repository.Frontier as a FIFO slice
type Frontier struct {
	items    []string
	capacity int
	mu       sync.Mutex
}

// NewFrontier creates a frontier; capacity 0 means unbounded
func NewFrontier(capacity int) repository.Frontier {
	return &Frontier{capacity: capacity}
}

// Push appends a URL. It returns false when the frontier is full.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.capacity > 0 && len(f.items) >= f.capacity {
		return false
	}
	f.items = append(f.items, url)
	return true
}

// Pop removes and returns the oldest URL
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.items) == 0 {
		return "", false
	}
	url := f.items[0]
	f.items[0] = ""
	f.items = f.items[1:]
	if len(f.items) == 0 {
		f.items = nil
	}
	return url, true
}

// Seed pushes every domain in sorted order
func (f *Frontier) Seed(domains mapset.Set[string]) {
	for _, d := range entity.SortedSlice(domains) {
		f.Push(d)
	}
}

// Len returns the current queue length
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Snapshot returns a copy of the pending URLs in queue order
func (f *Frontier) Snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.items...)
}

// Clear drops every pending URL
func (f *Frontier) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
}
