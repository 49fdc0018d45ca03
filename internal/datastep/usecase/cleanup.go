package usecase

import (
	"context"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

// DeleteTableIfPresent removes the named table's backing file when it exists.
// The datastore is refreshed afterwards either way, so the host index stays
// consistent even when the table was already gone.
func (u *Usecase) DeleteTableIfPresent(ctx context.Context, ds sdk.Datastore, user sdk.UserID, tableName string) error {
	tbl, err := findTable(ctx, ds, user, tableName)
	if err != nil {
		return err
	}

	if tbl != nil {
		if err := tbl.DeleteFile(ctx, user); err != nil {
			return err
		}
	}

	return ds.RefreshSynchronous(ctx)
}
