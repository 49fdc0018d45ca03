package usecase

import "github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"

type RunResult struct {
	RunID string
}

type StatusResult struct {
	RunID    string
	Status   entity.RunStatus
	RowCount int64
	Note     string
}

type SelectionResult struct {
	Selection entity.Selection
	Complete  bool
}
