package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgerror"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkguid"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

type RunStore interface {
	CreateRun(ctx context.Context, meta entity.RunMeta) error
	UpdateRun(ctx context.Context, runID string, fn func(meta *entity.RunMeta)) error
	GetRun(ctx context.Context, runID string) (entity.RunMeta, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.TableFailureEvent) error
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

// Options tune the fixed names and the caching poll. Zero values fall back
// to the defaults the host example has always used.
type Options struct {
	// FileName of the table file provisioned in the import store.
	FileName string
	// TableName the append targets (the file name without extension).
	TableName string
	// PollInterval between caching checks. Defaults to 100ms.
	PollInterval time.Duration
	// PollTimeout bounds the whole caching wait. Zero waits forever, which
	// matches the host contract.
	PollTimeout time.Duration
	// PollMaxInterval enables exponential backoff up to this cap. Zero keeps
	// the interval fixed.
	PollMaxInterval time.Duration
}

const (
	defaultFileName     = "sdkexample.txt"
	defaultTableName    = "sdkexample"
	defaultPollInterval = 100 * time.Millisecond
)

type Dependency struct {
	Hosts   sdk.Directory
	Store   RunStore
	Events  EventPublisher
	Runner  Runner
	Clock   Clock
	ID      pkguid.StringID
	RootCtx context.Context
	Options Options
}

type Usecase struct {
	hosts   sdk.Directory
	store   RunStore
	events  EventPublisher
	runner  Runner
	clock   Clock
	id      pkguid.StringID
	rootCtx context.Context
	opts    Options

	selMu sync.Mutex
	sel   entity.Selection
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	opts := dep.Options
	if opts.FileName == "" {
		opts.FileName = defaultFileName
	}
	if opts.TableName == "" {
		opts.TableName = defaultTableName
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	return &Usecase{
		hosts:   dep.Hosts,
		store:   dep.Store,
		events:  dep.Events,
		runner:  dep.Runner,
		clock:   clock,
		id:      dep.ID,
		rootCtx: root,
		opts:    opts,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Run starts one execution of the step. The import datastore is resolved up
// front so a missing one fails the call immediately; the provision/append
// sequence itself runs in the background and is observed via Status.
func (u *Usecase) Run(ctx context.Context, user sdk.UserID) (RunResult, error) {
	if u.hosts == nil || u.store == nil || u.id == nil || u.runner == nil {
		return RunResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	ds, err := u.importDatastore(ctx, user)
	if err != nil {
		return RunResult{}, err
	}

	runID := u.id.Generate()
	if err := u.store.CreateRun(ctx, entity.RunMeta{
		ID:        runID,
		User:      int64(user),
		Status:    entity.RunStatusQueued,
		StartedAt: u.clock.Now().Unix(),
	}); err != nil {
		return RunResult{}, pkgerror.NewServer(err)
	}

	u.runner.Go(u.rootCtx, func(ctx context.Context) error {
		if err := u.processRun(ctx, runID, user, ds); err != nil {
			slog.ErrorContext(ctx, "step run failed", "run_id", runID, "error", err)
			return err
		}
		return nil
	})

	return RunResult{RunID: runID}, nil
}

// Status reports the state of a previously started run.
func (u *Usecase) Status(ctx context.Context, runID string) (StatusResult, error) {
	if runID == "" {
		return StatusResult{}, pkgerror.NewInvalidInput(errors.New("run_id is required"))
	}

	meta, err := u.store.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, pkgerror.ErrNotFound) {
			return StatusResult{}, pkgerror.NewBusiness("run not found", pkgerror.CodeNotFound)
		}
		return StatusResult{}, pkgerror.NewServer(err)
	}

	return StatusResult{
		RunID:    meta.ID,
		Status:   meta.Status,
		RowCount: meta.RowCount,
		Note:     meta.Note,
	}, nil
}

// processRun is the step body: ensure the example table exists, append to it
// and wait for caching, compensate with a delete when the append fails, then
// diagnostically resolve the configured selection.
func (u *Usecase) processRun(ctx context.Context, runID string, user sdk.UserID, ds sdk.Datastore) error {
	u.updateRun(ctx, runID, func(meta *entity.RunMeta) {
		meta.Status = entity.RunStatusRunning
	})

	// A prior run is expected to have created the table already; provisioning
	// errors are recorded and otherwise ignored.
	if err := u.EnsureTable(ctx, ds, user, u.opts.FileName); err != nil {
		slog.WarnContext(ctx, "table provisioning reported an error", "run_id", runID, "file", u.opts.FileName, "error", err)
	}

	var note string
	rowCount, err := u.AppendAndWait(ctx, ds, user, u.opts.TableName)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		u.updateRun(context.WithoutCancel(ctx), runID, func(meta *entity.RunMeta) {
			meta.Status = entity.RunStatusFailed
			meta.Note = err.Error()
			meta.EndedAt = u.clock.Now().Unix()
		})
		return err
	default:
		note = err.Error()
		u.publishFailure(ctx, runID, ds.DisplayName(), err)
		if cleanupErr := u.DeleteTableIfPresent(ctx, ds, user, u.opts.TableName); cleanupErr != nil {
			slog.ErrorContext(ctx, "cleanup after append failure failed", "run_id", runID, "table", u.opts.TableName, "error", cleanupErr)
		}
	}

	sel := u.Selection()
	if !u.IsComplete(ctx, user, sel) {
		slog.InfoContext(ctx, "configured selection does not resolve", "run_id", runID, "datastore", sel.Datastore, "table", sel.Table)
	}

	u.updateRun(ctx, runID, func(meta *entity.RunMeta) {
		meta.Status = entity.RunStatusDone
		meta.RowCount = rowCount
		meta.Note = note
		meta.EndedAt = u.clock.Now().Unix()
	})

	return nil
}

func (u *Usecase) publishFailure(ctx context.Context, runID, datastore string, cause error) {
	if u.events == nil {
		return
	}

	event := entity.TableFailureEvent{
		EventID:   u.id.Generate(),
		RunID:     runID,
		Datastore: datastore,
		Table:     u.opts.TableName,
		Reason:    cause.Error(),
	}
	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish table failure event", "run_id", runID, "error", err)
	}
}

func (u *Usecase) updateRun(ctx context.Context, runID string, fn func(meta *entity.RunMeta)) {
	if err := u.store.UpdateRun(ctx, runID, fn); err != nil {
		slog.ErrorContext(ctx, "failed to update run", "run_id", runID, "error", err)
	}
}

// importDatastore finds the user's personal import store.
func (u *Usecase) importDatastore(ctx context.Context, user sdk.UserID) (sdk.Datastore, error) {
	stores, err := u.hosts.Datastores(ctx, user)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}

	for _, ds := range stores {
		if ds.IsImport() {
			return ds, nil
		}
	}

	return nil, &SetupError{Reason: "could not find import datastore"}
}
