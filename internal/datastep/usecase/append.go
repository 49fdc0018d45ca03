package usecase

import (
	"context"
	"io"
	"time"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

// AppendAndWait appends the fixed rows to the named table's backing file,
// triggers a cache rebuild for the user and blocks until the host finishes
// caching, then returns the resulting row count. The schema is validated
// before anything is written. The file handle is closed before the wait
// starts so nothing is held while polling.
func (u *Usecase) AppendAndWait(ctx context.Context, ds sdk.Datastore, user sdk.UserID, tableName string) (int64, error) {
	tbl, err := findTable(ctx, ds, user, tableName)
	if err != nil {
		return 0, &AppendError{Reason: "could not list tables", Err: err}
	}
	if tbl == nil {
		return 0, &AppendError{Reason: "table not found"}
	}

	attrs, err := tbl.AttributeNames(ctx)
	if err != nil {
		return 0, &AppendError{Reason: "could not read attributes", Err: err}
	}
	if len(attrs) != attributeCount {
		return 0, &AppendError{Reason: "wrong attribute count"}
	}

	if err := appendFixedRows(ctx, tbl); err != nil {
		return 0, &AppendError{Reason: "failed to write to file", Err: err}
	}

	if err := tbl.ClearCachedData(ctx, user); err != nil {
		return 0, &AppendError{Reason: "could not clear cached data", Err: err}
	}
	if err := tbl.CacheData(ctx, user); err != nil {
		return 0, &AppendError{Reason: "could not trigger caching", Err: err}
	}

	if err := u.waitForCaching(ctx, tbl, user); err != nil {
		return 0, err
	}

	count, err := tbl.RowCount(ctx, user)
	if err != nil {
		return 0, &AppendError{Reason: "could not read row count", Err: err}
	}

	return count, nil
}

func appendFixedRows(ctx context.Context, tbl sdk.Table) error {
	w, err := tbl.OpenAppend(ctx)
	if err != nil {
		return err
	}

	for _, line := range appendRows {
		if _, err := io.WriteString(w, line); err != nil {
			w.Close()
			return err
		}
	}

	return w.Close()
}

// waitForCaching polls the host's caching predicate until the rebuild is
// done. There is no completion callback in the host SDK, so this is a sleep
// poll: 100ms fixed by default, optionally growing exponentially up to
// PollMaxInterval and bounded by PollTimeout. Cancelling ctx terminates the
// wait promptly with the context's error.
func (u *Usecase) waitForCaching(ctx context.Context, tbl sdk.Table, user sdk.UserID) error {
	interval := u.opts.PollInterval

	var deadline <-chan time.Time
	if u.opts.PollTimeout > 0 {
		timer := time.NewTimer(u.opts.PollTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		caching, err := tbl.IsCaching(ctx, user)
		if err != nil {
			return &AppendError{Reason: "could not check caching state", Err: err}
		}
		if !caching {
			return nil
		}

		pause := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			pause.Stop()
			return ctx.Err()
		case <-deadline:
			pause.Stop()
			return &AppendError{Reason: "timed out waiting for table caching"}
		case <-pause.C:
		}

		if max := u.opts.PollMaxInterval; max > interval {
			interval *= 2
			if interval > max {
				interval = max
			}
		}
	}
}
