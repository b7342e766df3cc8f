package storage

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)
	require.NotNil(t, storage)
	require.Equal(t, tempDir, storage.basePath)

	_, err = os.Stat(tempDir)
	require.NoError(t, err, "Base directory should be created")
}

func TestNewStoredName(t *testing.T) {
	a, err := NewStoredName()
	require.NoError(t, err)
	b, err := NewStoredName()
	require.NoError(t, err)

	require.NotEqual(t, a, b, "Generated names must not collide")
	require.True(t, strings.HasSuffix(a, ".pdf"))
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	name, err := NewStoredName()
	require.NoError(t, err)
	content := "%PDF-1.4 fake content"

	written, err := storage.Save(name, strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), written)
	require.True(t, storage.Exists(name))

	readCloser, err := storage.Get(name)
	require.NoError(t, err)

	retrievedContent, err := io.ReadAll(readCloser)
	require.NoError(t, err)
	readCloser.Close()
	require.Equal(t, content, string(retrievedContent))

	err = storage.Delete(name)
	require.NoError(t, err)
	require.False(t, storage.Exists(name))
}

func TestLocalStorage_GetNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	_, err = storage.Get("non_existent.pdf")
	require.Error(t, err)
}

func TestLocalStorage_DeleteNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	// Usunięcie nieistniejącego pliku nie powinno zwracać błędu
	err = storage.Delete("non_existent.pdf")
	require.NoError(t, err)
}

func TestLocalStorage_PathTraversalNeutralized(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	written, err := storage.Save("../../escape.pdf", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.Equal(t, int64(1), written)

	// The blob must land inside the base directory regardless of the name.
	_, err = os.Stat(storage.pathFor("escape.pdf"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(storage.pathFor("../../escape.pdf"), tempDir))
}
