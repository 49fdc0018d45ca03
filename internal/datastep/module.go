// Package datastep is the Go port of the host SDK's "Database Test" example
// step: dependent datastore/table choosers with selection validation, plus an
// execute path that provisions a file-backed table in the personal import
// store, appends rows to it, and waits for the host to re-cache it.
package datastep

import (
	"context"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/event"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/inbound"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/store"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/usecase"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgconfig"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgrouter"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgroutine"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkguid"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

type Dependency struct {
	Config    pkgconfig.Config
	Router    *pkgrouter.Router
	Goroutine *pkgroutine.Manager
	Context   context.Context
	ID        pkguid.StringID
	Hosts     sdk.Directory
	User      sdk.UserID
}

func New(dep Dependency) (func(context.Context) error, error) {
	runs := store.NewInMemoryStore()

	bus := event.NewBus(128)
	consumer := event.NewAuditConsumer(bus, event.LogAuditor{}, event.ConsumerConfig{
		Workers:     2,
		MaxRetries:  3,
		BaseBackoff: dep.Config.GetDuration("modules.datastep.audit.backoff"),
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	uc := usecase.New(usecase.Dependency{
		Hosts:   dep.Hosts,
		Store:   runs,
		Events:  bus,
		Runner:  dep.Goroutine,
		ID:      dep.ID,
		RootCtx: dep.Context,
		Options: usecase.Options{
			FileName:        dep.Config.GetString("modules.datastep.file"),
			TableName:       dep.Config.GetString("modules.datastep.table"),
			PollInterval:    dep.Config.GetDuration("modules.datastep.poll.interval"),
			PollTimeout:     dep.Config.GetDuration("modules.datastep.poll.timeout"),
			PollMaxInterval: dep.Config.GetDuration("modules.datastep.poll.max_interval"),
		},
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.User)

	return consumer.Stop, nil
}
