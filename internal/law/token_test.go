package law

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUUIDv7Generator_Unique tests that tokens are unique and well-formed.
func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := UUIDv7Generator{}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := gen.Generate()

		parsed, err := uuid.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())

		assert.False(t, seen[token], "token %s repeated", token)
		seen[token] = true
	}
}

// TestFixedGenerator_Sequence tests deterministic token order.
func TestFixedGenerator_Sequence(t *testing.T) {
	gen := NewFixedGenerator("ctx-1", "ctx-2", "ctx-3")

	assert.Equal(t, "ctx-1", gen.Generate())
	assert.Equal(t, "ctx-2", gen.Generate())
	assert.Equal(t, "ctx-3", gen.Generate())
}

// TestFixedGenerator_Exhausted tests fail-fast on over-consumption.
func TestFixedGenerator_Exhausted(t *testing.T) {
	gen := NewFixedGenerator("only")
	gen.Generate()

	assert.Panics(t, func() { gen.Generate() })
}
