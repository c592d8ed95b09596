package publish

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/vango-dev/markup/internal/errors"
)

// Store is the interface for publish targets.
// Implement this interface to publish to other object stores.
type Store interface {
	// Put writes body under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// Target names the store kind for metrics and logs ("disk", "s3").
	Target() string
}

// cleanKey validates a slash-separated object key. Keys must be relative and
// stay inside the store root.
func cleanKey(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return "", errors.New("P002").WithDetailf("invalid key %q", key)
	}
	return clean, nil
}

// DiskStore writes pages to a local directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore, creating dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("P001").Wrap(err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the output directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Target implements Store.
func (s *DiskStore) Target() string {
	return "disk"
}

// Put writes body to dir/key. The file is written to a temp file first and
// renamed into place, so readers never see a partial page.
func (s *DiskStore) Put(ctx context.Context, key, _ string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	dest := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.New("P001").Wrap(err)
	}

	f, err := os.CreateTemp(filepath.Dir(dest), ".publish-*")
	if err != nil {
		return errors.New("P001").Wrap(err)
	}
	tmp := f.Name()

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.New("P001").Wrap(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.New("P001").Wrap(err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return errors.New("P001").Wrap(err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return errors.New("P001").Wrap(err)
	}
	return nil
}
