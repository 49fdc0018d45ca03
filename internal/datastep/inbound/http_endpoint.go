package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/usecase"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgerror"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgrouter"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
)

// HeaderUserID carries the acting host user for a request. Requests without
// it act as the application's default user.
const HeaderUserID = "X-User-ID"

type HTTPEndpoint struct {
	uc          uc
	defaultUser sdk.UserID
}

func (h *HTTPEndpoint) StartRun(ctx context.Context, r *http.Request) (any, error) {
	user, err := h.actingUser(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Run(ctx, user)
	if err != nil {
		return nil, mapStepErr(err)
	}

	return RunResponse{RunID: result.RunID}, nil
}

func (h *HTTPEndpoint) RunStatus(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Status(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return RunStatusResponse{
		RunID:    result.RunID,
		Status:   result.Status,
		RowCount: result.RowCount,
		Note:     result.Note,
	}, nil
}

func (h *HTTPEndpoint) GetSelection(ctx context.Context, r *http.Request) (any, error) {
	user, err := h.actingUser(r)
	if err != nil {
		return nil, err
	}

	sel := h.uc.Selection()

	return SelectionResponse{
		Datastore: sel.Datastore,
		Table:     sel.Table,
		Complete:  h.uc.IsComplete(ctx, user, sel),
	}, nil
}

func (h *HTTPEndpoint) PutSelection(ctx context.Context, r *http.Request) (any, error) {
	user, err := h.actingUser(r)
	if err != nil {
		return nil, err
	}

	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, pkgerror.NewInvalidInput(errors.New("invalid request body"))
	}
	if req.Datastore == nil && req.Table == nil {
		return nil, pkgerror.NewInvalidInput(errors.New("nothing to update"))
	}

	if req.Datastore != nil {
		h.uc.SetDatastore(*req.Datastore)
	}
	if req.Table != nil {
		h.uc.SetTable(*req.Table)
	}

	sel := h.uc.Selection()

	return SelectionResponse{
		Datastore: sel.Datastore,
		Table:     sel.Table,
		Complete:  h.uc.IsComplete(ctx, user, sel),
	}, nil
}

func (h *HTTPEndpoint) Datastores(ctx context.Context, r *http.Request) (any, error) {
	user, err := h.actingUser(r)
	if err != nil {
		return nil, err
	}

	stores, err := h.uc.Datastores(ctx, user)
	if err != nil {
		return nil, err
	}

	result := make([]DatastoreItem, 0, len(stores))
	for _, ds := range stores {
		result = append(result, DatastoreItem{
			Name:       ds.Name,
			IsImport:   ds.IsImport,
			TableCount: ds.TableCount,
		})
	}

	return DatastoresResponse{Datastores: result}, nil
}

func (h *HTTPEndpoint) DatastoreTables(ctx context.Context, r *http.Request) (any, error) {
	user, err := h.actingUser(r)
	if err != nil {
		return nil, err
	}

	tables, err := h.uc.DatastoreTables(ctx, user, pkgrouter.GetParam(ctx, "name"))
	if err != nil {
		return nil, err
	}

	result := make([]TableItem, 0, len(tables))
	for _, tbl := range tables {
		result = append(result, TableItem{
			Name:       tbl.Name,
			Attributes: tbl.Attributes,
		})
	}

	return TablesResponse{Tables: result}, nil
}

func (h *HTTPEndpoint) TableRows(ctx context.Context, r *http.Request) (any, error) {
	user, err := h.actingUser(r)
	if err != nil {
		return nil, err
	}

	offset, limit, err := parseWindow(r.URL.Query().Get("offset"), r.URL.Query().Get("limit"))
	if err != nil {
		return nil, err
	}

	rows, err := h.uc.TableRows(ctx, user, pkgrouter.GetParam(ctx, "name"), pkgrouter.GetParam(ctx, "table"), offset, limit)
	if err != nil {
		return nil, err
	}

	return RowsResponse{Rows: rows}, nil
}

func (h *HTTPEndpoint) actingUser(r *http.Request) (sdk.UserID, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		return h.defaultUser, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerror.NewInvalidInput(errors.New("invalid " + HeaderUserID + " header"))
	}

	return sdk.UserID(id), nil
}

func parseWindow(offsetRaw, limitRaw string) (int, int, error) {
	offset := 0
	limit := 100

	if offsetRaw != "" {
		value, err := strconv.Atoi(offsetRaw)
		if err != nil || value < 0 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid offset"))
		}
		offset = value
	}

	if limitRaw != "" {
		value, err := strconv.Atoi(limitRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid limit"))
		}
		if value > 1000 {
			value = 1000
		}
		limit = value
	}

	return offset, limit, nil
}

// mapStepErr turns the step's error kinds into transport errors.
func mapStepErr(err error) error {
	var setupErr *usecase.SetupError
	if errors.As(err, &setupErr) {
		return pkgerror.NewBusiness(setupErr.Reason, pkgerror.CodeNotFound)
	}

	var structured *pkgerror.Error
	if errors.As(err, &structured) {
		return err
	}

	return pkgerror.NewServer(err)
}
