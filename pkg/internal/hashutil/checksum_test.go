package hashutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChecksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("Hello, World!\n"), 0644))

	sum, err := FileChecksum(fs, "/a.txt")
	require.NoError(t, err)
	assert.Contains(t, sum, "sha256:")
	assert.Len(t, sum, 71)

	again, err := FileChecksum(fs, "/a.txt")
	require.NoError(t, err)
	assert.Equal(t, sum, again)

	_, err = FileChecksum(fs, "/missing")
	assert.Error(t, err)
}

func TestSameContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/b", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/c", []byte("y"), 0644))

	same, err := SameContent(fs, "/a", "/b")
	require.NoError(t, err)
	assert.True(t, same)

	same, err = SameContent(fs, "/a", "/c")
	require.NoError(t, err)
	assert.False(t, same)

	_, err = SameContent(fs, "/a", "/missing")
	assert.Error(t, err)
}
