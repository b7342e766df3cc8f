package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jaevor/go-nanoid"
)

// LocalStorage keeps uploaded PDF blobs as flat files under a single
// base directory. Records in the database reference blobs by the
// relative name returned from Save.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

// NewStoredName generates a collision-resistant blob name. The
// client-supplied filename is never used for on-disk paths.
func NewStoredName() (string, error) {
	generateID, err := nanoid.Standard(12)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return fmt.Sprintf("%d-%s.pdf", time.Now().UnixMilli(), generateID()), nil
}

func (ls *LocalStorage) pathFor(storedName string) string {
	return filepath.Join(ls.basePath, filepath.Base(storedName))
}

func (ls *LocalStorage) Save(storedName string, data io.Reader) (int64, error) {
	file, err := os.Create(ls.pathFor(storedName))
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return io.Copy(file, data)
}

func (ls *LocalStorage) Get(storedName string) (io.ReadCloser, error) {
	file, err := os.Open(ls.pathFor(storedName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s not found: %w", storedName, err)
		}
		return nil, err
	}

	return file, nil
}

// Delete removes a blob; a missing blob is not an error, so deletes
// stay idempotent.
func (ls *LocalStorage) Delete(storedName string) error {
	err := os.Remove(ls.pathFor(storedName))
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

// Exists reports whether the blob is present on disk.
func (ls *LocalStorage) Exists(storedName string) bool {
	_, err := os.Stat(ls.pathFor(storedName))
	return err == nil
}
