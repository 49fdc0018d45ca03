package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/event"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/store"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/usecase"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgrouter"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgroutine"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkguid"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/sdk/filestore"
)

type envelope[T any] struct {
	Data T              `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

const testUser = sdk.UserID(42)

func newTestRouter(t *testing.T) (http.Handler, *pkgroutine.Manager) {
	t.Helper()

	runner := pkgroutine.NewManager(10)

	hosts, err := filestore.New(filestore.Config{
		Root:        t.TempDir(),
		ImportStore: "My Files",
	}, runner)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	uc := usecase.New(usecase.Dependency{
		Hosts:   hosts,
		Store:   store.NewInMemoryStore(),
		Events:  event.NewBus(10),
		Runner:  runner,
		ID:      pkguid.NewUUID(),
		RootCtx: context.Background(),
		Options: usecase.Options{PollInterval: time.Millisecond},
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc, testUser)

	return router, runner
}

func TestDatabaseStepEndToEnd(t *testing.T) {
	router, runner := newTestRouter(t)

	stores := getDatastores(t, router)
	if len(stores.Datastores) != 1 {
		t.Fatalf("expected 1 datastore, got %d", len(stores.Datastores))
	}
	if stores.Datastores[0].Name != "My Files" || !stores.Datastores[0].IsImport {
		t.Fatalf("unexpected datastore: %+v", stores.Datastores[0])
	}
	if stores.Datastores[0].TableCount != 0 {
		t.Fatalf("expected empty import store, got %d tables", stores.Datastores[0].TableCount)
	}

	// First run provisions the table with 3 rows and appends 3 more.
	status := runToCompletion(t, router)
	if status.RowCount != 6 {
		t.Fatalf("expected 6 rows after first run, got %d", status.RowCount)
	}
	if status.Note != "" {
		t.Fatalf("unexpected note: %q", status.Note)
	}

	tables := getTables(t, router, "My%20Files")
	if len(tables.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables.Tables))
	}
	if tables.Tables[0].Name != "sdkexample" {
		t.Fatalf("unexpected table name: %q", tables.Tables[0].Name)
	}
	if len(tables.Tables[0].Attributes) != 3 {
		t.Fatalf("unexpected attributes: %v", tables.Tables[0].Attributes)
	}

	rows := getRows(t, router, "My%20Files", "sdkexample", "?offset=0&limit=10")
	if len(rows.Rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows.Rows))
	}
	if rows.Rows[0][0] != "1" || rows.Rows[5][0] != "6" {
		t.Fatalf("unexpected row window: %v", rows.Rows)
	}

	// A second run finds the table in place and appends again.
	status = runToCompletion(t, router)
	if status.RowCount != 9 {
		t.Fatalf("expected 9 rows after second run, got %d", status.RowCount)
	}

	if err := runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}
}

func TestSelectionOverHTTP(t *testing.T) {
	router, runner := newTestRouter(t)

	// Create the example table first so the selection can resolve.
	status := runToCompletion(t, router)
	if status.Status != entity.RunStatusDone {
		t.Fatalf("run not done: %s", status.Status)
	}

	sel := putSelection(t, router, `{"datastore": "My Files"}`)
	if sel.Complete {
		t.Fatal("a selection without a table must be incomplete")
	}

	sel = putSelection(t, router, `{"table": "SDKEXAMPLE"}`)
	if !sel.Complete {
		t.Fatalf("expected a complete selection, got %+v", sel)
	}

	// Re-picking the same datastore keeps the table.
	sel = putSelection(t, router, `{"datastore": "My Files"}`)
	if sel.Table != "SDKEXAMPLE" || !sel.Complete {
		t.Fatalf("re-picking the datastore must keep the table, got %+v", sel)
	}

	// Picking another one clears it.
	sel = putSelection(t, router, `{"datastore": "Other"}`)
	if sel.Table != "" || sel.Complete {
		t.Fatalf("changing the datastore must clear the table, got %+v", sel)
	}

	if err := runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}
}

func TestStartRunRejectsBadUserHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/steps/database/runs", nil)
	req.Header.Set(HeaderUserID, "not-a-number")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func runToCompletion(t *testing.T, router http.Handler) RunStatusResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/steps/database/runs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected start status: %d body=%s", rec.Code, rec.Body.String())
	}

	var env envelope[RunResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode run response: %v", err)
	}
	if env.Data.RunID == "" {
		t.Fatal("run id is empty")
	}

	var status RunStatusResponse
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		status = getStatus(t, router, env.Data.RunID)
		if status.Status == entity.RunStatusDone || status.Status == entity.RunStatusFailed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if status.Status != entity.RunStatusDone {
		t.Fatalf("run not done, status=%s note=%q", status.Status, status.Note)
	}

	return status
}

func getStatus(t *testing.T, router http.Handler, runID string) RunStatusResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/steps/database/runs/"+runID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var env envelope[RunStatusResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode run status: %v", err)
	}

	return env.Data
}

func getDatastores(t *testing.T, router http.Handler) DatastoresResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/datastores", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected datastores status: %d", rec.Code)
	}

	var env envelope[DatastoresResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode datastores: %v", err)
	}

	return env.Data
}

func getTables(t *testing.T, router http.Handler, datastore string) TablesResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/datastores/"+datastore+"/tables", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected tables status: %d body=%s", rec.Code, rec.Body.String())
	}

	var env envelope[TablesResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode tables: %v", err)
	}

	return env.Data
}

func getRows(t *testing.T, router http.Handler, datastore, table, query string) RowsResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/datastores/"+datastore+"/tables/"+table+"/rows"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected rows status: %d body=%s", rec.Code, rec.Body.String())
	}

	var env envelope[RowsResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode rows: %v", err)
	}

	return env.Data
}

func putSelection(t *testing.T, router http.Handler, body string) SelectionResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/steps/database/selection", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected selection status: %d body=%s", rec.Code, rec.Body.String())
	}

	var env envelope[SelectionResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode selection: %v", err)
	}

	return env.Data
}
