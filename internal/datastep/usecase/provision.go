package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

// The example table's fixed content. Provisioning seeds the header plus rows
// 1-3; every append adds rows 4-6.
const seedHeader = "heading1, heading2, heading3\n"

var seedRows = []string{
	"1, data1.1, data1.2\n",
	"2, data2.1, data2.2\n",
	"3, data3.1, data3.2\n",
}

var appendRows = []string{
	"4, data4.1, data4.2\n",
	"5, data5.1, data5.2\n",
	"6, data6.1, data6.2\n",
}

// attributeCount is the schema width of the example table.
const attributeCount = 3

// EnsureTable creates the example table file in the datastore when it does
// not exist yet, seeding it with the fixed header and rows. A pre-existing
// file is success. After creation the datastore is refreshed and the table
// count must have grown; anything else means another actor interfered and is
// reported as a ProvisionError.
func (u *Usecase) EnsureTable(ctx context.Context, ds sdk.Datastore, user sdk.UserID, fileName string) error {
	if err := ds.RefreshSynchronous(ctx); err != nil {
		return &ProvisionError{Reason: "datastore refresh failed", Err: err}
	}

	tables, err := ds.Tables(ctx, user)
	if err != nil {
		return &ProvisionError{Reason: "could not list tables", Err: err}
	}
	baseline := len(tables)

	w, err := ds.CreateTableFile(ctx, fileName)
	if errors.Is(err, sdk.ErrTableExists) {
		return nil
	}
	if err != nil {
		return &ProvisionError{Reason: "could not create table file", Err: err}
	}

	if err := writeSeed(w); err != nil {
		return &ProvisionError{Reason: "could not write table file", Err: err}
	}

	if err := ds.RefreshSynchronous(ctx); err != nil {
		return &ProvisionError{Reason: "datastore refresh failed", Err: err}
	}

	updated, err := ds.Tables(ctx, user)
	if err != nil {
		return &ProvisionError{Reason: "could not list tables", Err: err}
	}
	if len(updated) <= baseline {
		// Should never happen unless someone deleted the datastore's tables
		// while this ran.
		return &ProvisionError{Reason: "table creation failed"}
	}

	return nil
}

func writeSeed(w io.WriteCloser) error {
	for _, line := range append([]string{seedHeader}, seedRows...) {
		if _, err := io.WriteString(w, line); err != nil {
			w.Close()
			return err
		}
	}

	return w.Close()
}
