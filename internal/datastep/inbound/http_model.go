package inbound

import (
	"net/http"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"
)

type RunResponse struct {
	RunID string `json:"run_id"`
}

func (RunResponse) StatusCode() int {
	return http.StatusAccepted
}

func (RunResponse) Message() string {
	return "run accepted"
}

type RunStatusResponse struct {
	RunID    string           `json:"run_id"`
	Status   entity.RunStatus `json:"status"`
	RowCount int64            `json:"row_count"`
	Note     string           `json:"note,omitempty"`
}

type SelectionRequest struct {
	Datastore *string `json:"datastore"`
	Table     *string `json:"table"`
}

type SelectionResponse struct {
	Datastore string `json:"datastore"`
	Table     string `json:"table"`
	Complete  bool   `json:"complete"`
}

type DatastoreItem struct {
	Name       string `json:"name"`
	IsImport   bool   `json:"is_import"`
	TableCount int    `json:"table_count"`
}

type DatastoresResponse struct {
	Datastores []DatastoreItem `json:"datastores"`
}

type TableItem struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

type TablesResponse struct {
	Tables []TableItem `json:"tables"`
}

type RowsResponse struct {
	Rows [][]string `json:"rows"`
}
