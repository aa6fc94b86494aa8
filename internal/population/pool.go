package population

import "github.com/roach88/lexsim/internal/law"

// Pool recycles entity instances to avoid repeated allocation across
// large simulation runs. Acquire hands ownership to the caller; Release
// returns it, or drops the entity once the pool is full.
//
// INVARIANT: Size() <= Capacity() at all times. Repeated acquire/release
// cycles against a pool of capacity C recycle from a working set whose
// unique-identity count stays close to C instead of growing with the
// number of cycles.
//
// The pool is NOT safe for concurrent use. A caller sharing one pool
// across workers must add external synchronization.
type Pool struct {
	capacity int
	free     []law.Entity
}

// NewPool creates a pool with the given retention capacity.
// A non-positive capacity yields a pool that retains nothing.
func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{
		capacity: capacity,
		free:     make([]law.Entity, 0, capacity),
	}
}

// Acquire returns a previously-released entity if one is pooled,
// otherwise invokes factory to build a new one. Ownership transfers to
// the caller either way.
func (p *Pool) Acquire(factory func() law.Entity) law.Entity {
	if n := len(p.free); n > 0 {
		ent := p.free[n-1]
		p.free[n-1] = nil // release the reference for GC
		p.free = p.free[:n-1]
		return ent
	}
	return factory()
}

// Release returns an entity to the pool. If the pool is at capacity the
// entity is dropped, never erroring. Releasing nil is a no-op.
func (p *Pool) Release(ent law.Entity) {
	if ent == nil || len(p.free) >= p.capacity {
		return
	}
	p.free = append(p.free, ent)
}

// Size reports the current pooled (non-checked-out) count.
func (p *Pool) Size() int {
	return len(p.free)
}

// Capacity reports the retention limit.
func (p *Pool) Capacity() int {
	return p.capacity
}
