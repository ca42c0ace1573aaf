package dummy

import (
	"untangle/pkg/executor"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
)

// Kind is the kind the dummy executor is registered under.
const Kind = "dummy"

type dummy struct {
	requests map[string]interface{}
}

// New returns a new dummy executor answering each task with its canned request.
// A canned request is either a payload returned as is, or a map of the form
//   {"payload": ..., "delay": "1s", "error": true}
// whose delay is waited before returning the payload, or an error when error is set.
func New(requests map[string]interface{}) executor.Executor {
	return &dummy{
		requests: requests,
	}
}

func (d *dummy) Invoke(ctx context.Context, req executor.Request) (interface{}, error) {
	r, exists := d.requests[req.Task]
	if !exists {
		return nil, errors.Errorf("no dummy payload for task %s", req.Task)
	}
	ctx.Logger().Debugf("dummy executor invoked for task %s", req.Task)
	return handle(ctx, r)
}
