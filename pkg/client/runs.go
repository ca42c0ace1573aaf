package client

import (
	"context"
	"fmt"
	"net/http"
	"untangle/pkg/api"
)

// ListRunsResponse is the response struct for the ListRuns endpoint.
type ListRunsResponse struct {
	Runs []api.PipelineInfo `json:"runs"`
}

// RunStateResponse is the response of the RunState endpoint.
type RunStateResponse api.PipelineState

// RunResultResponse is the response of the RunResult endpoint.
type RunResultResponse api.RunResult

const (
	// ListRunsMethod is http method used for endpoint ListRuns
	ListRunsMethod = http.MethodGet
	// ListRunsPath is the path definition of the endpoint ListRuns.
	ListRunsPath = "/api/runs"

	// RunStateMethod is http method used for endpoint RunState
	RunStateMethod     = http.MethodGet
	runStatePathFormat = "/api/runs/%s/state"

	// RunResultMethod is http method used for endpoint RunResult
	RunResultMethod     = http.MethodGet
	runResultPathFormat = "/api/runs/%s/result"

	// CancelMethod is http method used for endpoint Cancel
	CancelMethod     = http.MethodPost
	cancelPathFormat = "/api/runs/%s/cancel"
)

var (
	// RunStatePath is the path definition of the endpoint RunState.
	RunStatePath = fmt.Sprintf(runStatePathFormat, fmt.Sprintf(":%s", ProcessIDParam))
	// RunResultPath is the path definition of the endpoint RunResult.
	RunResultPath = fmt.Sprintf(runResultPathFormat, fmt.Sprintf(":%s", ProcessIDParam))
	// CancelPath is the path definition of the endpoint Cancel.
	CancelPath = fmt.Sprintf(cancelPathFormat, fmt.Sprintf(":%s", ProcessIDParam))
)

func (cli client) ListRuns(ctx context.Context) ([]api.PipelineInfo, error) {
	var res ListRunsResponse
	if err := cli.do(ctx, ListRunsMethod, ListRunsPath, nil, "runs", &res); err != nil {
		return nil, err
	}
	return res.Runs, nil
}

func (cli client) RunState(ctx context.Context, pid string) (RunStateResponse, error) {
	var res RunStateResponse
	if err := cli.do(ctx, RunStateMethod, runPath(runStatePathFormat, pid), nil, fmt.Sprintf("process %s", pid), &res); err != nil {
		return RunStateResponse{}, err
	}
	return res, nil
}

func (cli client) RunResult(ctx context.Context, pid string) (RunResultResponse, error) {
	var res RunResultResponse
	if err := cli.do(ctx, RunResultMethod, runPath(runResultPathFormat, pid), nil, fmt.Sprintf("process %s", pid), &res); err != nil {
		return RunResultResponse{}, err
	}
	return res, nil
}

func (cli client) Cancel(ctx context.Context, pid string) error {
	return cli.do(ctx, CancelMethod, runPath(cancelPathFormat, pid), nil, fmt.Sprintf("running process %s", pid), nil)
}
