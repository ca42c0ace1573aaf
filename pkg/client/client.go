// Package client is the HTTP client of the untangle server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"untangle/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	// ProcessIDParam is the param definition for ProcessID
	ProcessIDParam = "processID"
)

// Client is the API client that performs all operations to an untangle server
type Client interface {
	// Submit submits a run request. It returns the process identifier and the selected pipeline.
	Submit(ctx context.Context, req api.RunRequest) (api.RunResponse, error)

	// ListRuns lists the runs known by the server, most recent first.
	ListRuns(ctx context.Context) ([]api.PipelineInfo, error)

	// RunState returns the state of a run and its tasks.
	RunState(ctx context.Context, processID string) (RunStateResponse, error)

	// RunResult returns the report or the failure of a finished run.
	// ErrNotFinished is returned while the run is in progress.
	RunResult(ctx context.Context, processID string) (RunResultResponse, error)

	// Cancel cancels a running run.
	Cancel(ctx context.Context, processID string) error
}

// NewClient creates an untangle client
func NewClient(uri string) (Client, error) {
	if uri == "" {
		return nil, errors.New("server uri is required")
	}
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	httpcli.RetryMax = 2
	u := strings.TrimRight(uri, "/")
	return client{
		httpcli: httpcli,
		uri:     u,
	}, nil
}

type client struct {
	httpcli *retryablehttp.Client
	uri     string
}

// do sends the request and decodes the response body into out, if not nil.
// Error statuses are returned as typed errors, what naming the requested item.
func (cli client) do(ctx context.Context, method, path string, body interface{}, what string, out interface{}) error {
	var raw interface{}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "cannot marshal request")
		}
		raw = b
	}
	req, err := retryablehttp.NewRequest(method, cli.uri+path, raw)
	if err != nil {
		return errors.Wrap(err, "cannot create request")
	}
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusCreated:
	case http.StatusNotFound:
		return ErrNotFound{what}
	case http.StatusConflict:
		return errors.Wrapf(ErrNotFinished, "%s", what)
	case http.StatusBadRequest:
		return ErrBadRequest{decodeError(resp)}
	default:
		return errors.Wrapf(decodeError(resp), "unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "cannot decode response")
	}
	return nil
}

func decodeError(resp *http.Response) error {
	httpErr := HTTPError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&httpErr); err != nil || httpErr.Message == nil {
		//Cannot decode error
		return errors.New("no error message")
	}
	return httpErr
}

func runPath(format, pid string) string {
	return fmt.Sprintf(format, pid)
}
