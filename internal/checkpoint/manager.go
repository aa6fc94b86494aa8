// Package checkpoint retains a bounded, time-ordered history of
// simulation metric snapshots.
//
// Retention is strict insertion-order FIFO: when the history is full the
// oldest-inserted checkpoint is evicted. Loads never promote, so this is
// not an LRU cache; access-order promotion would change the observable
// eviction sequence.
//
// Checkpoints are in-memory only; durability across process restarts is
// out of scope.
package checkpoint

import (
	"time"

	"github.com/roach88/lexsim/internal/sim"
)

// Checkpoint is a named, timestamped snapshot of aggregate simulation
// metrics. Immutable once saved.
type Checkpoint struct {
	Name    string
	Metrics *sim.Metrics
	SavedAt time.Time
}

// New creates a checkpoint from a live aggregate, deep-copying it so the
// snapshot is insulated from further mutation, and stamping the current
// time.
func New(name string, m *sim.Metrics) Checkpoint {
	var snap *sim.Metrics
	if m != nil {
		snap = m.Snapshot()
	}
	return Checkpoint{
		Name:    name,
		Metrics: snap,
		SavedAt: time.Now(),
	}
}

// Manager holds the bounded checkpoint history.
//
// INVARIANT: after any sequence of saves with distinct names,
// Count() == min(capacity, total saves), and the retained set is exactly
// the capacity most recently inserted checkpoints.
//
// Not safe for concurrent use; the host serializes checkpointing at its
// own safe points.
type Manager struct {
	max    int
	order  []string // insertion order, oldest first
	byName map[string]Checkpoint
}

// WithMaxCheckpoints creates a manager that retains at most n
// checkpoints. A non-positive n retains nothing: every save is evicted
// immediately.
func WithMaxCheckpoints(n int) *Manager {
	if n < 0 {
		n = 0
	}
	return &Manager{
		max:    n,
		byName: make(map[string]Checkpoint),
	}
}

// Save appends a checkpoint, evicting the oldest-inserted one on
// overflow. Saving an existing name replaces its snapshot in place and
// keeps the original insertion slot. Total: never fails.
func (m *Manager) Save(cp Checkpoint) {
	if _, exists := m.byName[cp.Name]; exists {
		m.byName[cp.Name] = cp
		return
	}

	m.order = append(m.order, cp.Name)
	m.byName[cp.Name] = cp

	for len(m.order) > m.max {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.byName, oldest)
	}
}

// Load is a read-only lookup by name. It does not affect eviction order.
func (m *Manager) Load(name string) (Checkpoint, bool) {
	cp, ok := m.byName[name]
	return cp, ok
}

// Count returns the number of retained checkpoints.
func (m *Manager) Count() int {
	return len(m.order)
}

// Capacity returns the retention limit.
func (m *Manager) Capacity() int {
	return m.max
}

// Names returns the retained checkpoint names, oldest first.
func (m *Manager) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
