package population

import "sync"

// DirtyTracker records which entity identifiers changed since the last
// checkpoint or sync point. Membership only, no ordering. A host process
// uses it to know which entities a simulation pass touched and therefore
// need re-persistence or re-indexing, without re-scanning the whole
// population.
//
// Thread-safe: all methods may be called from any goroutine.
type DirtyTracker struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewDirtyTracker creates an empty tracker.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{ids: make(map[string]struct{})}
}

// MarkDirty adds an identifier to the dirty set.
// Idempotent: marking twice has no additional effect.
func (t *DirtyTracker) MarkDirty(id string) {
	t.mu.Lock()
	t.ids[id] = struct{}{}
	t.mu.Unlock()
}

// MarkManyDirty adds a batch of identifiers to the dirty set.
func (t *DirtyTracker) MarkManyDirty(ids []string) {
	t.mu.Lock()
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}
	t.mu.Unlock()
}

// IsDirty reports whether an identifier is in the dirty set.
func (t *DirtyTracker) IsDirty(id string) bool {
	t.mu.RLock()
	_, ok := t.ids[id]
	t.mu.RUnlock()
	return ok
}

// DirtyCount returns the dirty set size.
func (t *DirtyTracker) DirtyCount() int {
	t.mu.RLock()
	n := len(t.ids)
	t.mu.RUnlock()
	return n
}

// Clear empties the dirty set.
func (t *DirtyTracker) Clear() {
	t.mu.Lock()
	t.ids = make(map[string]struct{})
	t.mu.Unlock()
}
