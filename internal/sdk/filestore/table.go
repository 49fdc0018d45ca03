package filestore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

type table struct {
	name   string
	path   string
	runner Runner

	mu      sync.RWMutex
	attrs   []string
	caching map[sdk.UserID]bool
	caches  map[sdk.UserID]*rowCache
}

// rowCache holds a completed rebuild: the row count and the rows themselves,
// CSV-encoded and lz4-compressed.
type rowCache struct {
	count int64
	blob  []byte
}

func newTable(name, path string, runner Runner) *table {
	return &table{
		name:    name,
		path:    path,
		runner:  runner,
		caching: make(map[sdk.UserID]bool),
		caches:  make(map[sdk.UserID]*rowCache),
	}
}

func (t *table) DisplayName() string {
	return t.name
}

// reindex reads the header line into the attribute names. Called under the
// datastore scan.
func (t *table) reindex() error {
	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	defer f.Close()

	var attrs []string
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		for _, field := range strings.Split(scanner.Text(), ",") {
			attrs = append(attrs, strings.TrimSpace(field))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	t.attrs = attrs
	t.mu.Unlock()

	return nil
}

func (t *table) AttributeNames(_ context.Context) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	attrs := make([]string, len(t.attrs))
	copy(attrs, t.attrs)

	return attrs, nil
}

func (t *table) OpenAppend(_ context.Context) (io.WriteCloser, error) {
	return os.OpenFile(t.path, os.O_WRONLY|os.O_APPEND, 0o644)
}

func (t *table) ClearCachedData(_ context.Context, user sdk.UserID) error {
	t.mu.Lock()
	delete(t.caches, user)
	t.mu.Unlock()

	return nil
}

// CacheData marks the user's cache rebuild as in flight and schedules it on
// the runner. IsCaching reports true until the rebuild goroutine finishes.
func (t *table) CacheData(ctx context.Context, user sdk.UserID) error {
	t.mu.Lock()
	if t.caching[user] {
		t.mu.Unlock()
		return nil
	}
	t.caching[user] = true
	t.mu.Unlock()

	t.runner.Go(ctx, func(ctx context.Context) error {
		defer func() {
			t.mu.Lock()
			t.caching[user] = false
			t.mu.Unlock()
		}()

		if err := t.rebuild(user); err != nil {
			slog.ErrorContext(ctx, "table cache rebuild failed", "table", t.name, "user", int64(user), "error", err)
			return err
		}
		return nil
	})

	return nil
}

// rebuild parses the backing file and stores the compressed row cache.
func (t *table) rebuild(user sdk.UserID) error {
	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return err
	}

	var attrs []string
	var rows [][]string
	if len(records) > 0 {
		attrs = records[0]
		rows = records[1:]
	}

	blob, err := compressRows(rows)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if attrs != nil {
		t.attrs = attrs
	}
	t.caches[user] = &rowCache{count: int64(len(rows)), blob: blob}
	t.mu.Unlock()

	return nil
}

func (t *table) IsCaching(_ context.Context, user sdk.UserID) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.caching[user], nil
}

func (t *table) RowCount(_ context.Context, user sdk.UserID) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cache, ok := t.caches[user]
	if !ok {
		return 0, sdk.ErrNotCached
	}

	return cache.count, nil
}

func (t *table) Rows(_ context.Context, user sdk.UserID, offset, limit int) ([][]string, error) {
	t.mu.RLock()
	cache, ok := t.caches[user]
	t.mu.RUnlock()
	if !ok {
		return nil, sdk.ErrNotCached
	}

	rows, err := decompressRows(cache.blob)
	if err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil, nil
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return rows[offset:end], nil
}

func (t *table) DeleteFile(_ context.Context, _ sdk.UserID) error {
	return os.Remove(t.path)
}

func compressRows(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)

	w := csv.NewWriter(zw)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompressRows(blob []byte) ([][]string, error) {
	reader := csv.NewReader(lz4.NewReader(bytes.NewReader(blob)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return rows, nil
}
