// Package filestore implements the host capability surface on top of a plain
// directory tree: every subdirectory of the root is a datastore and every
// regular file inside one is a table, with the first line of the file acting
// as the attribute header. Cache rebuilds run asynchronously on a runner, the
// way the real host's caching subsystem does.
package filestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

// Runner schedules background work, typically pkgroutine.Manager.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

// Config describes the directory layout of the store.
type Config struct {
	// Root is the directory whose subdirectories are the datastores.
	Root string
	// ImportStore is the subdirectory treated as the personal import store.
	// It is created if missing.
	ImportStore string
}

// FileStore is a file-backed sdk.Directory.
type FileStore struct {
	root       string
	importName string
	runner     Runner

	mu     sync.Mutex
	stores map[string]*datastore
}

// New builds a FileStore over cfg.Root, creating the import store directory
// when it does not exist yet.
func New(cfg Config, runner Runner) (*FileStore, error) {
	if cfg.Root == "" {
		return nil, errors.New("filestore: root directory is required")
	}
	if cfg.ImportStore == "" {
		return nil, errors.New("filestore: import store name is required")
	}

	if err := os.MkdirAll(filepath.Join(cfg.Root, cfg.ImportStore), 0o755); err != nil {
		return nil, err
	}

	return &FileStore{
		root:       cfg.Root,
		importName: cfg.ImportStore,
		runner:     runner,
		stores:     make(map[string]*datastore),
	}, nil
}

// Datastores lists the datastores under the root, sorted by name. Handles are
// stable across calls so table snapshots and caches survive between listings.
func (s *FileStore) Datastores(ctx context.Context, _ sdk.UserID) ([]sdk.Datastore, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]sdk.Datastore, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ds, ok := s.stores[entry.Name()]
		if !ok {
			ds = newDatastore(entry.Name(), filepath.Join(s.root, entry.Name()), entry.Name() == s.importName, s.runner)
			if err := ds.scan(); err != nil {
				return nil, err
			}
			s.stores[entry.Name()] = ds
		}
		result = append(result, ds)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayName() < result[j].DisplayName()
	})

	return result, nil
}

type datastore struct {
	name     string
	path     string
	isImport bool
	runner   Runner

	mu     sync.RWMutex
	tables map[string]*table // keyed by lower-cased display name
}

func newDatastore(name, path string, isImport bool, runner Runner) *datastore {
	return &datastore{
		name:     name,
		path:     path,
		isImport: isImport,
		runner:   runner,
		tables:   make(map[string]*table),
	}
}

func (d *datastore) DisplayName() string {
	return d.name
}

func (d *datastore) IsImport() bool {
	return d.isImport
}

func (d *datastore) Tables(_ context.Context, _ sdk.UserID) ([]sdk.Table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]sdk.Table, 0, len(d.tables))
	for _, t := range d.tables {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayName() < result[j].DisplayName()
	})

	return result, nil
}

func (d *datastore) RefreshSynchronous(_ context.Context) error {
	return d.scan()
}

// scan re-reads the directory and replaces the table snapshot. Handles for
// files that still exist are kept so their caches stay valid.
func (d *datastore) scan() error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	seen := make(map[string]*table, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := tableName(entry.Name())
		key := strings.ToLower(name)
		t, ok := d.tables[key]
		if !ok {
			t = newTable(name, filepath.Join(d.path, entry.Name()), d.runner)
		}
		if err := t.reindex(); err != nil {
			return err
		}
		seen[key] = t
	}
	d.tables = seen

	return nil
}

func (d *datastore) CreateTableFile(_ context.Context, fileName string) (io.WriteCloser, error) {
	f, err := os.OpenFile(filepath.Join(d.path, fileName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, sdk.ErrTableExists
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// tableName derives the display name of a table from its file name, dropping
// the extension ("sdkexample.txt" becomes "sdkexample").
func tableName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
