package sdk

import (
	"context"
	"io"
)

// UserID identifies the acting host user. All table data, caching state and
// visibility is scoped per user by the host.
type UserID int64

// Directory lists the datastores a user can access, in host order.
type Directory interface {
	Datastores(ctx context.Context, user UserID) ([]Datastore, error)
}

// Datastore is a named collection of file-backed tables owned by the host.
type Datastore interface {
	// DisplayName is the name shown in choosers and used for lookups.
	DisplayName() string

	// IsImport reports whether this is the user's personal import store.
	IsImport() bool

	// Tables returns the tables currently visible to the user. The listing
	// reflects the host's index, not necessarily the live backing storage;
	// call RefreshSynchronous to re-scan.
	Tables(ctx context.Context, user UserID) ([]Table, error)

	// RefreshSynchronous blocks until the host has re-scanned the backing
	// storage and updated its table index.
	RefreshSynchronous(ctx context.Context) error

	// CreateTableFile creates the backing file for a new table and returns a
	// writer for its initial content. It returns ErrTableExists when the file
	// is already present; the new file only becomes a table after the next
	// refresh.
	CreateTableFile(ctx context.Context, fileName string) (io.WriteCloser, error)
}

// Table is a schema-bearing, file-backed dataset with a per-user row cache.
type Table interface {
	DisplayName() string

	// AttributeNames returns the table's column names from the host index.
	AttributeNames(ctx context.Context) ([]string, error)

	// OpenAppend opens the backing file for appending raw text.
	OpenAppend(ctx context.Context) (io.WriteCloser, error)

	// ClearCachedData drops the user's cached row data.
	ClearCachedData(ctx context.Context, user UserID) error

	// CacheData asks the host to rebuild the user's row cache. The rebuild
	// runs asynchronously; poll IsCaching for completion.
	CacheData(ctx context.Context, user UserID) error

	// IsCaching reports whether a cache rebuild is in flight for the user.
	IsCaching(ctx context.Context, user UserID) (bool, error)

	// RowCount returns the cached row count. Only valid once caching has
	// completed; returns ErrNotCached otherwise.
	RowCount(ctx context.Context, user UserID) (int64, error)

	// Rows returns up to limit cached rows starting at offset.
	Rows(ctx context.Context, user UserID, offset, limit int) ([][]string, error)

	// DeleteFile removes the table's backing file for the user. The table
	// disappears from listings at the next refresh.
	DeleteFile(ctx context.Context, user UserID) error
}
