package client

import (
	"fmt"

	"github.com/pkg/errors"
)

// HTTPError is the error body returned by the controller.
type HTTPError struct {
	Status  int         `json:"-"`
	Message interface{} `json:"message"`
}

func (err HTTPError) Error() string {
	return fmt.Sprintf("%v", err.Message)
}

// ErrNotFound is the error returned when the requested run does not exist.
type ErrNotFound struct {
	what string
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.what)
}

// ErrBadRequest is the error returned when the controller rejected the run request.
type ErrBadRequest struct {
	error
}

func (err ErrBadRequest) Error() string {
	return err.error.Error()
}

// Cause returns the error sent by the controller.
func (err ErrBadRequest) Cause() error {
	return err.error
}

// ErrNotFinished is returned when the result of a run still in progress is requested.
var ErrNotFinished = errors.New("run not finished")
