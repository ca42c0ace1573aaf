package main

import (
	"net/http"
	"untangle/pkg/api"
	"untangle/pkg/client"
	"untangle/pkg/store"
	"untangle/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h handlers) ListRuns(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	runs, err := h.registry.ListRuns(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if runs == nil {
		runs = []api.PipelineInfo{}
	}
	return c.JSON(http.StatusOK, client.ListRunsResponse{
		Runs: runs,
	})
}

func (h handlers) RunState(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())

	pid := c.Param(client.ProcessIDParam)
	ps, err := h.registry.RunState(ctx, pid)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, client.RunStateResponse(ps))
}

func (h handlers) RunResult(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	pid := c.Param(client.ProcessIDParam)
	res, err := h.registry.RunResult(ctx, pid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, client.RunResultResponse(res))
}

func (h handlers) Cancel(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	pid := c.Param(client.ProcessIDParam)
	if err := h.sc.Cancel(ctx, pid); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusAccepted)
}

// httpError maps registry errors to HTTP errors.
func httpError(err error) error {
	switch {
	case errors.As(errors.Cause(err), &store.ErrNotFound{}):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotFinished):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
