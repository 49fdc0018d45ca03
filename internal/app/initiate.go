package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgconfig"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgrouter"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgroutine"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkguid"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk/filestore"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()

	// The file host scopes everything by a numeric user ID, the way the real
	// host does. One snowflake ID stands in for the logged-in user.
	snow, err := pkguid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init snowflake generator", "error", err)
		os.Exit(1)
	}
	a.defaultUser = sdk.UserID(snow.Generate())
}

func (a *App) initHostStore() {
	hosts, err := filestore.New(filestore.Config{
		Root:        a.config.GetString("host.root"),
		ImportStore: a.config.GetString("host.import"),
	}, a.goroutine)
	if err != nil {
		slog.Error("failed to init file host store", "error", err)
		os.Exit(1)
	}

	a.hosts = hosts
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
