package storage

import (
	"sync"

	"github.com/WangYihang/web-crawler/pkg/domain/repository"
	mapset "github.com/deckarep/golang-set/v2"
)

// ErrorRegistry implements repository.ErrorRegistry.
// Messages are deduplicated by content.
type ErrorRegistry struct {
	messages mapset.Set[string]
	mu       sync.RWMutex
}

// NewErrorRegistry creates an empty registry
func NewErrorRegistry() repository.ErrorRegistry {
	return &ErrorRegistry{messages: mapset.NewThreadUnsafeSet[string]()}
}

// Add records a message
func (r *ErrorRegistry) Add(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages.Add(message)
}

// Len returns the number of distinct messages
func (r *ErrorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.messages.Cardinality()
}

// Snapshot returns a copy of the messages
func (r *ErrorRegistry) Snapshot() mapset.Set[string] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.messages.Clone()
}

// Clear drops every message
func (r *ErrorRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages.Clear()
}
