package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// FileStore writes documents to the local filesystem. Keys are paths,
// resolved against the root when relative.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at root. An empty root resolves
// keys against the working directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) path(key string) string {
	if s.root == "" || filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.root, key)
}

// Put writes data through a temporary file in the same directory and
// renames it into place, so readers never see a partial document.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New(errors.ErrCodeInvalidPath, "output path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := s.path(key)
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(errors.ErrCodeStorage, err, "create %s", dir)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", dst)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", dst)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", dst)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", dst)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", dst)
	}
	return dst, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read %s", key)
	}
	return data, nil
}

var _ Store = (*FileStore)(nil)
