package population

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBatchIterator_ExactChunks tests chunking a large sequence: 100,000
// items at batch size 1000 yield exactly 100 chunks whose concatenation
// reproduces the source in order.
func TestBatchIterator_ExactChunks(t *testing.T) {
	src := make([]int, 100000)
	for i := range src {
		src[i] = i
	}

	it := NewBatchIterator(src, 1000)

	var chunks int
	var rebuilt []int
	for {
		chunk, ok := it.Next()
		if !ok {
			break
		}
		chunks++
		assert.LessOrEqual(t, len(chunk), 1000)
		rebuilt = append(rebuilt, chunk...)
	}

	assert.Equal(t, 100, chunks)
	require.Len(t, rebuilt, len(src))
	assert.Equal(t, src, rebuilt)
}

// TestBatchIterator_UnevenTail tests that the final chunk carries the
// remainder.
func TestBatchIterator_UnevenTail(t *testing.T) {
	src := []string{"a", "b", "c", "d", "e"}
	it := NewBatchIterator(src, 2)

	chunk, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, chunk)
	assert.Equal(t, 3, it.Remaining())

	chunk, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"c", "d"}, chunk)

	chunk, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"e"}, chunk)

	_, ok = it.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, it.Remaining())
}

// TestBatchIterator_Empty tests the empty source.
func TestBatchIterator_Empty(t *testing.T) {
	it := NewBatchIterator([]int{}, 10)
	_, ok := it.Next()
	assert.False(t, ok)
}

// TestBatchIterator_DefaultSize tests fallback for non-positive sizes.
func TestBatchIterator_DefaultSize(t *testing.T) {
	src := make([]int, DefaultBatchSize+1)
	it := NewBatchIterator(src, 0)

	chunk, ok := it.Next()
	require.True(t, ok)
	assert.Len(t, chunk, DefaultBatchSize)

	chunk, ok = it.Next()
	require.True(t, ok)
	assert.Len(t, chunk, 1)
}

// TestBatchIterator_Exhausted tests that Next keeps returning false after
// exhaustion.
func TestBatchIterator_Exhausted(t *testing.T) {
	it := NewBatchIterator([]int{1}, 1)

	_, ok := it.Next()
	require.True(t, ok)

	for i := 0; i < 3; i++ {
		_, ok = it.Next()
		assert.False(t, ok)
	}
}
