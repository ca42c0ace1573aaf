package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"untangle/pkg/api"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cli, err := NewClient(srv.URL + "/")
	require.NoError(t, err)
	return cli
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSubmit(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, SubmitMethod, r.Method)
			assert.Equal(t, SubmitPath, r.URL.Path)
			var req api.RunRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "doc", req.Document)
			assert.Equal(t, "u1", req.UserID)
			writeJSON(w, http.StatusAccepted, api.RunResponse{ProcessID: "pid", Pipeline: "demistifier"})
		})
		resp, err := cli.Submit(context.Background(), api.RunRequest{Document: "doc", UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, api.RunResponse{ProcessID: "pid", Pipeline: "demistifier"}, resp)
	})

	t.Run("bad_request", func(t *testing.T) {
		cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "document is required"})
		})
		_, err := cli.Submit(context.Background(), api.RunRequest{})
		require.Error(t, err)
		assert.True(t, errors.As(err, &ErrBadRequest{}))
		assert.Equal(t, "document is required", err.Error())
	})
}

func TestRuns(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ListRunsPath:
			writeJSON(w, http.StatusOK, ListRunsResponse{Runs: []api.PipelineInfo{{Name: "demistifier", ProcessID: "pid", Status: api.StatusRunning}}})
		case "/api/runs/pid/state":
			writeJSON(w, http.StatusOK, api.PipelineState{ProcessID: "pid", Status: api.StatusRunning, Tasks: []api.TaskState{{Name: "summarizer", Status: api.StatusCompleted}}})
		case "/api/runs/pid/result":
			writeJSON(w, http.StatusConflict, map[string]string{"message": "run not finished"})
		case "/api/runs/done/result":
			writeJSON(w, http.StatusOK, api.RunResult{Status: api.StatusFailed, Failure: &api.Failure{Task: "risk_evaluator", Kind: "SchemaError"}})
		case "/api/runs/pid/cancel":
			assert.Equal(t, CancelMethod, r.Method)
			w.WriteHeader(http.StatusAccepted)
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		}
	})
	ctx := context.Background()

	runs, err := cli.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "pid", runs[0].ProcessID)

	state, err := cli.RunState(ctx, "pid")
	require.NoError(t, err)
	assert.Equal(t, api.StatusRunning, state.Status)
	assert.Equal(t, "summarizer", state.Tasks[0].Name)

	_, err = cli.RunResult(ctx, "pid")
	assert.True(t, errors.Is(err, ErrNotFinished))

	res, err := cli.RunResult(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, "risk_evaluator", res.Failure.Task)

	_, err = cli.RunState(ctx, "unknown")
	assert.True(t, errors.As(err, &ErrNotFound{}))
	assert.Equal(t, "process unknown not found", err.Error())

	assert.NoError(t, cli.Cancel(ctx, "pid"))
	assert.True(t, errors.As(cli.Cancel(ctx, "unknown"), &ErrNotFound{}))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}
