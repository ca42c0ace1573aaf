package store

import (
	"context"
	"untangle/pkg/api"
)

// Registry keeps track of the pipeline runs served by the controller.
type Registry interface {
	// CreateRun registers a new run for the named pipeline with its tasks in the created status.
	CreateRun(ctx context.Context, processID, name string, tasks []string) error
	// SetRunStatus sets the run status, recording start and end times.
	SetRunStatus(ctx context.Context, processID string, status api.Status) error
	// SetTaskState records the state of one task of the run.
	SetTaskState(ctx context.Context, processID string, state api.TaskState) error
	// SetRunResult stores the outcome of the run and sets its final status.
	SetRunResult(ctx context.Context, processID string, result api.RunResult) error

	ReadOnlyRegistry
}

// ReadOnlyRegistry are functions used by controller to access data in RO
type ReadOnlyRegistry interface {
	// ListRuns lists the runs, most recently created first
	ListRuns(ctx context.Context) ([]api.PipelineInfo, error)
	RunState(ctx context.Context, processID string) (api.PipelineState, error)
	// RunResult returns the outcome of a finished run. ErrNotFinished is returned while it is running.
	RunResult(ctx context.Context, processID string) (api.RunResult, error)
}
