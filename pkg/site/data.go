package site

import (
	"maps"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
)

// LoadData reads a YAML or JSON mapping to use as a render context.
func LoadData(path string) (markup.Context, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("C003").WithDetailf("cannot read %s", path).Wrap(err)
	}
	return ParseData(raw)
}

// ParseData decodes a YAML or JSON mapping. An empty document yields an
// empty context.
func ParseData(raw []byte) (markup.Context, error) {
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.New("C003").Wrap(err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return markup.Context(data), nil
}

// MergeSet returns a copy of base with key=value pairs applied on top.
func MergeSet(base markup.Context, pairs []string) (markup.Context, error) {
	out := make(markup.Context, len(base)+len(pairs))
	maps.Copy(out, base)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.New("C101").
				WithDetailf("expected key=value, got %q", pair)
		}
		out[key] = value
	}
	return out, nil
}

// DataStore holds the current render context and reloads it from its file.
// It is safe for concurrent use.
type DataStore struct {
	path string

	mu   sync.RWMutex
	data markup.Context
}

// NewDataStore creates a store for path and loads it. An empty path gives a
// store with an empty, fixed context.
func NewDataStore(path string) (*DataStore, error) {
	d := &DataStore{path: path, data: markup.Context{}}
	if path == "" {
		return d, nil
	}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the backing file path.
func (d *DataStore) Path() string {
	return d.path
}

// Reload re-reads the file. On error the previous context is kept.
func (d *DataStore) Reload() error {
	if d.path == "" {
		return nil
	}
	data, err := LoadData(d.path)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.data = data
	d.mu.Unlock()
	return nil
}

// Context returns a copy of the current context.
func (d *DataStore) Context() markup.Context {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.data)
}
