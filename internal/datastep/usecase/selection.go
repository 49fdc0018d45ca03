package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

// Selection returns the step's current (datastore, table) configuration.
func (u *Usecase) Selection() entity.Selection {
	u.selMu.Lock()
	defer u.selMu.Unlock()

	return u.sel
}

// SetDatastore updates the datastore slot. Picking a different datastore
// clears the table slot; re-picking the current one keeps it.
func (u *Usecase) SetDatastore(name string) entity.Selection {
	u.selMu.Lock()
	defer u.selMu.Unlock()

	u.sel = u.sel.WithDatastore(name)

	return u.sel
}

// SetTable updates the table slot.
func (u *Usecase) SetTable(name string) entity.Selection {
	u.selMu.Lock()
	defer u.selMu.Unlock()

	u.sel = u.sel.WithTable(name)

	return u.sel
}

// IsComplete reports whether the selection is executable: both slots set and
// both names still resolving against the live listing for the user. Stale
// names (deleted or renamed entities) are detected on every call, never
// cached. Lookup failures count as incomplete.
func (u *Usecase) IsComplete(ctx context.Context, user sdk.UserID, sel entity.Selection) bool {
	if !sel.IsSet() {
		return false
	}

	ds, err := u.findDatastore(ctx, user, sel.Datastore)
	if err != nil {
		slog.DebugContext(ctx, "selection check could not list datastores", "error", err)
		return false
	}
	if ds == nil {
		return false
	}

	tbl, err := findTable(ctx, ds, user, sel.Table)
	if err != nil {
		slog.DebugContext(ctx, "selection check could not list tables", "datastore", sel.Datastore, "error", err)
		return false
	}

	return tbl != nil
}

func (u *Usecase) findDatastore(ctx context.Context, user sdk.UserID, name string) (sdk.Datastore, error) {
	stores, err := u.hosts.Datastores(ctx, user)
	if err != nil {
		return nil, err
	}

	for _, ds := range stores {
		if ds.DisplayName() == name {
			return ds, nil
		}
	}

	return nil, nil
}

// findTable resolves a table within a datastore by display name,
// case-insensitively.
func findTable(ctx context.Context, ds sdk.Datastore, user sdk.UserID, name string) (sdk.Table, error) {
	tables, err := ds.Tables(ctx, user)
	if err != nil {
		return nil, err
	}

	for _, t := range tables {
		if strings.EqualFold(t.DisplayName(), name) {
			return t, nil
		}
	}

	return nil, nil
}
