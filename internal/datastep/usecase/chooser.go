package usecase

import (
	"context"
	"errors"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgerror"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

// DatastoreInfo is one entry of the datastore chooser.
type DatastoreInfo struct {
	Name       string
	IsImport   bool
	TableCount int
}

// TableInfo is one entry of the table chooser.
type TableInfo struct {
	Name       string
	Attributes []string
}

// Datastores lists the datastores the user can pick in the first chooser.
func (u *Usecase) Datastores(ctx context.Context, user sdk.UserID) ([]DatastoreInfo, error) {
	stores, err := u.hosts.Datastores(ctx, user)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}

	result := make([]DatastoreInfo, 0, len(stores))
	for _, ds := range stores {
		tables, err := ds.Tables(ctx, user)
		if err != nil {
			return nil, pkgerror.NewServer(err)
		}
		result = append(result, DatastoreInfo{
			Name:       ds.DisplayName(),
			IsImport:   ds.IsImport(),
			TableCount: len(tables),
		})
	}

	return result, nil
}

// DatastoreTables lists the tables of one datastore for the second chooser.
func (u *Usecase) DatastoreTables(ctx context.Context, user sdk.UserID, datastoreName string) ([]TableInfo, error) {
	ds, err := u.findDatastore(ctx, user, datastoreName)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}
	if ds == nil {
		return nil, pkgerror.NewBusiness("datastore not found", pkgerror.CodeNotFound)
	}

	tables, err := ds.Tables(ctx, user)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}

	result := make([]TableInfo, 0, len(tables))
	for _, tbl := range tables {
		attrs, err := tbl.AttributeNames(ctx)
		if err != nil {
			return nil, pkgerror.NewServer(err)
		}
		result = append(result, TableInfo{
			Name:       tbl.DisplayName(),
			Attributes: attrs,
		})
	}

	return result, nil
}

// TableRows reads a window of the user's cached rows for a table.
func (u *Usecase) TableRows(ctx context.Context, user sdk.UserID, datastoreName, tableName string, offset, limit int) ([][]string, error) {
	ds, err := u.findDatastore(ctx, user, datastoreName)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}
	if ds == nil {
		return nil, pkgerror.NewBusiness("datastore not found", pkgerror.CodeNotFound)
	}

	tbl, err := findTable(ctx, ds, user, tableName)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}
	if tbl == nil {
		return nil, pkgerror.NewBusiness("table not found", pkgerror.CodeNotFound)
	}

	rows, err := tbl.Rows(ctx, user, offset, limit)
	if errors.Is(err, sdk.ErrNotCached) {
		return nil, pkgerror.NewBusiness("table data is not cached yet", pkgerror.CodeConflict)
	}
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}

	return rows, nil
}
