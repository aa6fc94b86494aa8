package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	result, errs := LoadCatalog(filepath.Join("testdata", "catalog"), LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.FileCount)
	require.Len(t, result.Statutes, 3)

	// Sorted by id regardless of file layout.
	assert.Equal(t, "child-benefit", result.Statutes[0].ID)
	assert.Equal(t, "hardship-review", result.Statutes[1].ID)
	assert.Equal(t, "senior-transit-pass", result.Statutes[2].ID)

	hardship := result.Statutes[1]
	assert.True(t, hardship.Discretionary())
	assert.Len(t, hardship.Preconditions, 2)

	transit := result.Statutes[2]
	require.Len(t, transit.Preconditions, 1)
}

func TestLoadCatalogMissingDir(t *testing.T) {
	_, errs := LoadCatalog(filepath.Join("testdata", "nope"), LoadModeFailFast)
	require.Len(t, errs, 1)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadCatalogNoCUEFiles(t *testing.T) {
	_, errs := LoadCatalog(t.TempDir(), LoadModeFailFast)
	require.Len(t, errs, 1)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoadCatalogCollectAll(t *testing.T) {
	_, errs := LoadCatalog(filepath.Join("testdata", "bad"), LoadModeCollectAll)
	// Both broken statutes reported, not just the first.
	require.Len(t, errs, 2)
	for _, err := range errs {
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeCompile, le.Code)
	}
}

func TestLoadCatalogFailFast(t *testing.T) {
	_, errs := LoadCatalog(filepath.Join("testdata", "bad"), LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestFindCUEFiles(t *testing.T) {
	files, err := FindCUEFiles("testdata")
	require.NoError(t, err)
	assert.Len(t, files, 3) // benefits, review, broken; population.yaml excluded
}
