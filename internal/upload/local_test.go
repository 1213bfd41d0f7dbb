package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// минимальный PNG заголовок - достаточно для DetectContentType
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()

	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return store
}

func TestLocalStore_Save(t *testing.T) {
	t.Run("Success PNG upload", func(t *testing.T) {
		store := newTestStore(t)

		data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
		result, err := store.Save("avatar.png", bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)

		assert.NotEmpty(t, result.PublicID)
		assert.Equal(t, "png", result.Format)
		assert.Equal(t, "avatar.png", result.Filename)
		assert.Equal(t, int64(len(data)), result.Bytes)
		assert.Equal(t, "/uploads/"+result.PublicID+".png", result.ImageURL)

		// файл действительно лежит на диске целиком
		saved, err := os.ReadFile(filepath.Join(store.Dir(), result.PublicID+".png"))
		require.NoError(t, err)
		assert.Equal(t, data, saved)
	})

	t.Run("Success JPEG upload", func(t *testing.T) {
		store := newTestStore(t)

		data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{1}, 64)...)
		result, err := store.Save("photo.jpeg", bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, "jpg", result.Format)
	})

	t.Run("Error: unsupported content type", func(t *testing.T) {
		store := newTestStore(t)

		data := []byte("%PDF-1.4 definitely not an image")
		_, err := store.Save("doc.pdf", bytes.NewReader(data), int64(len(data)))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported image type")
	})

	t.Run("Error: file too large", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Save("huge.png", bytes.NewReader(pngHeader), MaxImageSize+1)
		assert.Error(t, err)
	})
}

func TestLocalStore_Remove(t *testing.T) {
	store := newTestStore(t)

	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 10)...)
	result, err := store.Save("x.png", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	require.NoError(t, store.Remove(result.PublicID, result.Format))

	_, err = os.Stat(filepath.Join(store.Dir(), result.PublicID+".png"))
	assert.True(t, os.IsNotExist(err))
}
