package inbound

import (
	"context"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/usecase"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgrouter"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

type uc interface {
	Run(ctx context.Context, user sdk.UserID) (usecase.RunResult, error)
	Status(ctx context.Context, runID string) (usecase.StatusResult, error)
	Datastores(ctx context.Context, user sdk.UserID) ([]usecase.DatastoreInfo, error)
	DatastoreTables(ctx context.Context, user sdk.UserID, datastoreName string) ([]usecase.TableInfo, error)
	TableRows(ctx context.Context, user sdk.UserID, datastoreName, tableName string, offset, limit int) ([][]string, error)
	Selection() entity.Selection
	SetDatastore(name string) entity.Selection
	SetTable(name string) entity.Selection
	IsComplete(ctx context.Context, user sdk.UserID, sel entity.Selection) bool
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, defaultUser sdk.UserID) {
	end := &HTTPEndpoint{uc: uc, defaultUser: defaultUser}

	r.POST("/steps/database/runs", end.StartRun)
	r.GET("/steps/database/runs/:id", end.RunStatus)

	r.GET("/steps/database/selection", end.GetSelection)
	r.PUT("/steps/database/selection", end.PutSelection)

	r.GET("/datastores", end.Datastores)
	r.GET("/datastores/:name/tables", end.DatastoreTables)
	r.GET("/datastores/:name/tables/:table/rows", end.TableRows) // ?offset=&limit=
}
