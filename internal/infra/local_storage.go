package infra

import (
	"os"
	"path/filepath"

	"chronicle/internal/ports"
)

// LocalStorage is the plain-filesystem implementation of the storage port.
// Remove passes the os error through, so fs.ErrNotExist survives for
// callers that treat a missing file as already cleaned.
type LocalStorage struct{}

func NewLocalStorage() ports.FileStorage {
	return &LocalStorage{}
}

func (LocalStorage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (LocalStorage) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (LocalStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (LocalStorage) Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (LocalStorage) Remove(path string) error {
	return os.Remove(path)
}
