// Package runlog persists batch run records so pipeline executions can
// be listed and audited after the fact.
package runlog

import (
	"context"
	"time"
)

// RunStatus tracks a batch run through its lifecycle.
type RunStatus string

const (
	StatusRunning  RunStatus = "running"
	StatusComplete RunStatus = "complete"
	StatusFailed   RunStatus = "failed"
)

// Run is one recorded batch execution.
type Run struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Status     RunStatus       `json:"status"`
	Params     map[string]any  `json:"params,omitempty"`
	Summary    map[string]any  `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Filter specifies criteria for listing runs.
type Filter struct {
	Kind   string    `json:"kind,omitempty"`
	Status RunStatus `json:"status,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for the run log.
type Store interface {
	StartRun(ctx context.Context, kind string, params map[string]any) (*Run, error)
	CompleteRun(ctx context.Context, runID string, summary map[string]any) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter Filter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
