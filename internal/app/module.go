package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.datastep.enabled") {
		closer, err := datastep.New(datastep.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			Hosts:     a.hosts,
			User:      a.defaultUser,
		})
		if err != nil {
			slog.Error("failed to init module datastep", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Datastep"] = closer
		}
	}
}
