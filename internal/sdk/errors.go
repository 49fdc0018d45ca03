package sdk

import "errors"

var (
	// ErrTableExists indicates the backing file for a new table is already
	// present in the datastore.
	ErrTableExists = errors.New("table file already exists")

	// ErrNotCached indicates row data was requested before a cache rebuild
	// completed for the user.
	ErrNotCached = errors.New("table data is not cached")
)
