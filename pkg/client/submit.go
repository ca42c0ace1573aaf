package client

import (
	"context"
	"net/http"
	"untangle/pkg/api"
)

const (
	// SubmitMethod is http method used for endpoint Submit
	SubmitMethod = http.MethodPost
	// SubmitPath is the path definition of the endpoint Submit.
	SubmitPath = "/api/runs"
)

// SubmitRequest is the request structure for the Submit endpoint
type SubmitRequest api.RunRequest

// SubmitResponse is the response structure for the Submit endpoint
type SubmitResponse api.RunResponse

func (cli client) Submit(ctx context.Context, req api.RunRequest) (api.RunResponse, error) {
	var res SubmitResponse
	if err := cli.do(ctx, SubmitMethod, SubmitPath, SubmitRequest(req), "pipeline", &res); err != nil {
		return api.RunResponse{}, err
	}
	return api.RunResponse(res), nil
}
