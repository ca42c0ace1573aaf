package main

import (
	"net/http"
	"untangle/pkg/api"
	"untangle/pkg/client"
	"untangle/pkg/scheduler"
	"untangle/pkg/util/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h handlers) Submit(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	ctx = context.WithProcessID(ctx, uuid.New().String())
	correlationID := c.Request().Header.Get(api.HeaderCorrelationID)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	ctx = context.WithCorrelationID(ctx, correlationID)

	var req client.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == "" {
		req.UserID = c.Request().Header.Get(api.HeaderUserID)
	}

	resp, err := h.sc.Submit(ctx, api.RunRequest(req))
	if err != nil {
		if errors.As(err, &scheduler.ErrBadRequest{}) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(api.HeaderProcessID, resp.ProcessID)
	c.Response().Header().Set(api.HeaderCorrelationID, correlationID)
	return c.JSON(http.StatusAccepted, client.SubmitResponse(resp))
}
