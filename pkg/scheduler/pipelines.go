package scheduler

import (
	"strings"
	"untangle/pkg/api"
	"untangle/pkg/demistifier"
	"untangle/pkg/memory"
	"untangle/pkg/pipeline"
	"untangle/pkg/router"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
)

// ErrBadRequest is returned when a request cannot be turned into a run.
type ErrBadRequest struct {
	error
}

func (err ErrBadRequest) Error() string {
	return err.error.Error()
}

// Cause returns the underlying error.
func (err ErrBadRequest) Cause() error {
	return err.error
}

// CustomPipeline is the route of runs of a pipeline submitted as a spec.
const CustomPipeline = "custom"

// prepared is a run ready to be executed.
type prepared struct {
	name   string
	route  router.Route
	runner *pipeline.Runner
	input  string
	userID string
}

// prepare selects the pipeline of the request and builds its runner.
// An explicit spec or pipeline name wins; a request without document is a conversation;
// otherwise the router decides.
func (sc *scheduler) prepare(ctx context.Context, req api.RunRequest) (prepared, error) {
	p := prepared{userID: req.UserID}
	if req.Spec != nil {
		r, err := pipeline.NewFromSpec(*req.Spec, sc.Executors, sc.Options...)
		if err != nil {
			return prepared{}, ErrBadRequest{errors.Wrap(err, "pipeline is not valid")}
		}
		if strings.TrimSpace(req.Document) == "" {
			return prepared{}, ErrBadRequest{errors.New("document is required")}
		}
		p.name, p.runner, p.input = req.Spec.Name, r, req.Document
		return p, nil
	}

	route, err := sc.route(ctx, req)
	if err != nil {
		return prepared{}, err
	}
	p.route, p.name = route, string(route)

	switch route {
	case router.RouteDemistifier:
		if strings.TrimSpace(req.Document) == "" {
			return prepared{}, ErrBadRequest{errors.New("document is required")}
		}
		p.input = req.Document
		p.runner, err = demistifier.New(sc.exec, sc.Options...)
	case router.RouteConversation:
		p.input = req.Message
		if p.input == "" {
			p.input = req.Document
		}
		user := memory.UserData{}
		if req.UserID != "" {
			if user, err = sc.Memory.Fetch(ctx, req.UserID); err != nil {
				return prepared{}, errors.Wrapf(err, "cannot fetch memory of user %s", req.UserID)
			}
		}
		p.runner, err = demistifier.NewConversation(sc.exec, user, sc.Options...)
	}
	if err != nil {
		return prepared{}, errors.Wrapf(err, "cannot build pipeline %s", p.name)
	}
	return p, nil
}

func (sc *scheduler) route(ctx context.Context, req api.RunRequest) (router.Route, error) {
	switch {
	case req.Pipeline != "":
		route, err := router.Parse(req.Pipeline)
		if err != nil {
			return "", ErrBadRequest{err}
		}
		return route, nil
	case strings.TrimSpace(req.Document) == "" && strings.TrimSpace(req.Message) == "":
		return "", ErrBadRequest{errors.New("document or message is required")}
	case strings.TrimSpace(req.Document) == "":
		return router.RouteConversation, nil
	}

	request := req.Document
	if req.Message != "" {
		request = req.Message + "\n\n" + req.Document
	}
	// The router has its own process ID, the run keeps the one of ctx.
	route := sc.router.Route(context.WithProcessID(ctx, ""), request)
	ctx.Logger().Infof("request routed to %s", route)
	return route, nil
}
