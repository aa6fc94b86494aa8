package population

import (
	"context"
	"runtime"
	"sync"
)

// Options configures streaming processing.
type Options struct {
	// BatchSize bounds how many items are in flight at once.
	// Non-positive falls back to DefaultBatchSize.
	BatchSize int

	// Workers is the number of goroutines applying the function inside
	// each batch. Non-positive falls back to GOMAXPROCS. Workers share
	// the input read-only; each writes to disjoint output indices, so no
	// locking is needed on the result slice.
	Workers int
}

func (o Options) normalized() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Process applies fn to every item and returns one result per item, in
// input order. The input is consumed through batches so that peak
// concurrency is bounded by batch size, not collection size.
//
// Cancellation is observed at batch boundaries: a batch already started
// runs to completion, then the context error is returned and partial
// results are discarded.
func Process[T, R any](ctx context.Context, items []T, opts Options, fn func(T) R) ([]R, error) {
	opts = opts.normalized()

	results := make([]R, len(items))
	it := NewBatchIterator(items, opts.BatchSize)
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, ok := it.Next()
		if !ok {
			break
		}

		processBatch(batch, results[offset:offset+len(batch)], opts.Workers, fn)
		offset += len(batch)
	}

	return results, nil
}

// processBatch fans one batch out over workers. out is the sub-slice of
// the result array aligned with batch; worker w handles indices
// w, w+workers, w+2*workers, ... so writes never overlap.
func processBatch[T, R any](batch []T, out []R, workers int, fn func(T) R) {
	if workers > len(batch) {
		workers = len(batch)
	}
	if workers <= 1 {
		for i := range batch {
			out[i] = fn(batch[i])
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(batch); i += workers {
				out[i] = fn(batch[i])
			}
		}(w)
	}
	wg.Wait()
}
