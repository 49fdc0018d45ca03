package app

import (
	"context"
	"net/http"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgconfig"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkglog"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgrouter"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgroutine"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkguid"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk/filestore"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager

	// resources
	hosts       *filestore.FileStore
	defaultUser sdk.UserID

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHostStore()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
