package population

// DefaultBatchSize is the chunk size used when a caller does not
// configure one. Large enough to amortize per-batch overhead, small
// enough that peak memory stays far below population size.
const DefaultBatchSize = 1000

// BatchIterator splits an arbitrarily large ordered collection into
// contiguous fixed-size chunks.
//
// INVARIANT: concatenating every chunk reproduces the source in original
// order, and every element appears exactly once.
//
// Chunks are sub-slices of the source; they share its backing array and
// must be treated as read-only views.
type BatchIterator[T any] struct {
	src  []T
	size int
	pos  int
}

// NewBatchIterator creates an iterator over src with the given chunk
// size. A non-positive size falls back to DefaultBatchSize.
func NewBatchIterator[T any](src []T, size int) *BatchIterator[T] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &BatchIterator[T]{src: src, size: size}
}

// Next returns the next chunk and true, or nil and false once the source
// is exhausted. Every chunk except possibly the last has exactly the
// configured size.
func (it *BatchIterator[T]) Next() ([]T, bool) {
	if it.pos >= len(it.src) {
		return nil, false
	}
	end := it.pos + it.size
	if end > len(it.src) {
		end = len(it.src)
	}
	chunk := it.src[it.pos:end]
	it.pos = end
	return chunk, true
}

// Remaining reports how many elements have not yet been yielded.
func (it *BatchIterator[T]) Remaining() int {
	return len(it.src) - it.pos
}
