package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilename(t *testing.T) {
	name := NewFilename("portrait.PNG")
	assert.Regexp(t, regexp.MustCompile(`^\d+-\d{1,4}\.PNG$`), name)

	other := NewFilename("noext")
	assert.False(t, strings.Contains(other, "."))
}

func TestImageStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	stored, err := store.Save("123-45.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "123-45.jpg", stored)
	assert.True(t, store.Exists(stored))

	data, err := os.ReadFile(filepath.Join(dir, stored))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(stored))
	assert.False(t, store.Exists(stored))

	// deleting twice is not an error
	require.NoError(t, store.Delete(stored))
}

func TestImageStoreStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	_, err = store.Save("../escape.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, store.Exists("escape.jpg"))
	assert.Equal(t, filepath.Join(dir, "escape.jpg"), store.Path("../escape.jpg"))
}
