// Package router chooses the pipeline handling a user request.
package router

import (
	gocontext "context"
	"untangle/pkg/executor"
	"untangle/pkg/pipeline"
	"untangle/pkg/schema"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
)

// Route is a downstream pipeline.
type Route string

const (
	// RouteDemistifier analyses a new legal document.
	RouteDemistifier Route = "demistifier"
	// RouteConversation answers from the user memory.
	RouteConversation Route = "conversation"
)

// Routes lists every route.
var Routes = []Route{RouteDemistifier, RouteConversation}

// TaskName is the name of the classification task.
const TaskName = "route"

const instruction = `You dispatch user requests to the right assistant. Answer with the route only.
Choose "demistifier" when the request brings a legal document to analyse: terms of service, privacy policies,
contracts, or a request to summarize, evaluate the risks of or extract the risky phrases of such a document.
Choose "conversation" for questions about previously analysed documents, the user stored information,
clarifications of past analyses and general conversation.`

// Schema is the output of the classification task.
func Schema() *schema.Schema {
	values := make([]string, len(Routes))
	for i, r := range Routes {
		values[i] = string(r)
	}
	return schema.Object(schema.Field("route", schema.Enum(values...)))
}

// Router classifies requests with an executor.
type Router struct {
	runner *pipeline.Runner
}

// New returns a Router classifying with e.
func New(e executor.Executor, opts ...pipeline.Option) (*Router, error) {
	if e == nil {
		return nil, errors.New("executor is required")
	}
	r, err := pipeline.New(pipeline.Task(pipeline.TaskSpec{
		Name:        TaskName,
		Instruction: instruction,
		Schema:      Schema(),
		Executor:    e,
		Strict:      true,
	}), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create router")
	}
	return &Router{runner: r}, nil
}

// Route returns the route of the request. Any classification failure falls back to RouteConversation.
func (r *Router) Route(ctx gocontext.Context, request string) Route {
	res := r.runner.Execute(ctx, request)
	c := context.FromContext(ctx)
	if !res.Succeeded() {
		c.Logger().Warnf("cannot route request, falling back to %s: %v", RouteConversation, res.Failure)
		return RouteConversation
	}
	var out struct {
		Route Route `json:"route"`
	}
	if err := res.Decode(&out); err != nil {
		c.Logger().Warnf("cannot decode route, falling back to %s: %v", RouteConversation, err)
		return RouteConversation
	}
	c.Logger().Debugf("request routed to %s", out.Route)
	return out.Route
}

// Parse returns the route named s.
func Parse(s string) (Route, error) {
	for _, r := range Routes {
		if string(r) == s {
			return r, nil
		}
	}
	return "", errors.Errorf("unknown route %s", s)
}
