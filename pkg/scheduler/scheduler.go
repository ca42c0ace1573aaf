// Package scheduler turns run requests into pipeline runs: it selects the pipeline, registers the run and
// executes it, keeping the registry and the user memory up to date.
package scheduler

import (
	gocontext "context"
	"sync"
	"untangle/pkg/api"
	"untangle/pkg/executor"
	"untangle/pkg/memory"
	"untangle/pkg/pipeline"
	"untangle/pkg/router"
	"untangle/pkg/store"
	"untangle/pkg/util/context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TearDownFunc is the function called when a run is finished. (Either success or failure)
type TearDownFunc func(ctx context.Context, res pipeline.Result) error

// Scheduler defines the entries of the pipeline engine.
type Scheduler interface {
	// Submit starts the run of the request in background and returns once it is registered.
	// The run is identified by the process ID of ctx, a new one is generated when it is not set.
	Submit(ctx context.Context, req api.RunRequest) (api.RunResponse, error)

	// Run executes the request and returns its result.
	Run(ctx context.Context, req api.RunRequest) (api.RunResponse, pipeline.Result, error)

	// Cancel cancels a run started with Submit and sets its status to CANCELLED.
	Cancel(ctx context.Context, processID string) error

	// Wait blocks until every submitted run is finished.
	Wait()

	// Set function to be called when a run is finished. (Either success or failure)
	SetTearDownFunc(TearDownFunc)
}

// Params are the collaborators of a scheduler.
type Params struct {
	// Executors are the executors available to pipelines submitted as specs.
	Executors executor.Registry
	// Kind is the kind of the executor used by the built-in pipelines and the router.
	Kind string
	// Registry records the runs.
	Registry store.Registry
	// Memory provides the user memory to conversations. Optional.
	Memory memory.Memory
	// Options apply to every run.
	Options []pipeline.Option
}

// NewScheduler returns a new instance of Pipeline scheduler
func NewScheduler(p Params) (Scheduler, error) {
	if p.Registry == nil {
		return nil, errors.New("registry is required")
	}
	e, err := p.Executors.Get(p.Kind)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get executor of built-in pipelines")
	}
	r, err := router.New(e, p.Options...)
	if err != nil {
		return nil, err
	}
	if p.Memory == nil {
		p.Memory = memory.NewInMemory()
	}

	sc := &scheduler{
		Params:  p,
		exec:    e,
		router:  r,
		cancels: make(map[string]gocontext.CancelFunc),
	}
	sc.Options = append(append([]pipeline.Option{}, p.Options...), pipeline.WithTaskCallback(sc.taskChanged))
	return sc, nil
}

type scheduler struct {
	Params
	exec         executor.Executor
	router       *router.Router
	teardownFunc TearDownFunc

	mutex   sync.Mutex
	cancels map[string]gocontext.CancelFunc
	wg      sync.WaitGroup
}

func (sc *scheduler) SetTearDownFunc(f TearDownFunc) {
	sc.teardownFunc = f
}

func (sc *scheduler) Submit(ctx context.Context, req api.RunRequest) (api.RunResponse, error) {
	ctx = withIdentifiers(ctx)
	p, err := sc.prepare(ctx, req)
	if err != nil {
		return api.RunResponse{}, err
	}
	if err := sc.register(ctx, p); err != nil {
		return api.RunResponse{}, err
	}

	// The run outlives the request that submitted it.
	rctx := context.WithCorrelationID(context.WithProcessID(context.Background(), ctx.ProcessID()), ctx.CorrelationID())
	rctx, cancel := context.WithCancel(rctx)
	sc.mutex.Lock()
	sc.cancels[ctx.ProcessID()] = cancel
	sc.mutex.Unlock()

	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()
		defer func() {
			sc.mutex.Lock()
			delete(sc.cancels, rctx.ProcessID())
			sc.mutex.Unlock()
			cancel()
		}()
		sc.execute(rctx, p)
	}()

	return api.RunResponse{ProcessID: ctx.ProcessID(), Pipeline: p.name}, nil
}

func (sc *scheduler) Run(ctx context.Context, req api.RunRequest) (api.RunResponse, pipeline.Result, error) {
	ctx = withIdentifiers(ctx)
	p, err := sc.prepare(ctx, req)
	if err != nil {
		return api.RunResponse{}, pipeline.Result{}, err
	}
	if err := sc.register(ctx, p); err != nil {
		return api.RunResponse{}, pipeline.Result{}, err
	}
	res := sc.execute(ctx, p)
	return api.RunResponse{ProcessID: ctx.ProcessID(), Pipeline: p.name}, res, nil
}

func (sc *scheduler) Cancel(ctx context.Context, pid string) error {
	sc.mutex.Lock()
	cancel, exists := sc.cancels[pid]
	sc.mutex.Unlock()
	if !exists {
		return store.NotFoundError("running process " + pid)
	}
	ctx.Logger().Infof("cancelling process %s", pid)
	cancel()
	return nil
}

func (sc *scheduler) Wait() {
	sc.wg.Wait()
}

func (sc *scheduler) register(ctx context.Context, p prepared) error {
	if err := sc.Registry.CreateRun(ctx, ctx.ProcessID(), p.name, p.runner.Root().TaskNames()); err != nil {
		return errors.Wrapf(err, "cannot create run of pipeline %s", p.name)
	}
	return nil
}

// execute runs the prepared pipeline and records its outcome.
func (sc *scheduler) execute(ctx context.Context, p prepared) pipeline.Result {
	pid := ctx.ProcessID()
	if err := sc.Registry.SetRunStatus(ctx, pid, api.StatusRunning); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set status %s", api.StatusRunning))
	}

	res := p.runner.Execute(ctx, p.input)
	out := res.API()
	if ctx.Err() == gocontext.Canceled {
		out.Status = api.StatusCancelled
	}
	if err := sc.Registry.SetRunResult(ctx, pid, out); err != nil {
		ctx.Logger().Error(errors.Wrap(err, "cannot record run result"))
	}

	if res.Succeeded() && p.userID != "" {
		var err error
		switch p.route {
		case router.RouteDemistifier:
			err = sc.Memory.RecordDocument(ctx, p.userID, memory.Title(p.input))
		case router.RouteConversation:
			err = sc.Memory.RecordQuery(ctx, p.userID, p.input)
		}
		if err != nil {
			ctx.Logger().Error(errors.Wrapf(err, "cannot update memory of user %s", p.userID))
		}
	}

	//Call teardown func if set
	if sc.teardownFunc != nil {
		if err := sc.teardownFunc(ctx, res); err != nil {
			ctx.Logger().Error(errors.Wrap(err, "error calling teardown function"))
		}
	}
	return res
}

// taskChanged records the task states reported by the runner.
func (sc *scheduler) taskChanged(ctx context.Context, state api.TaskState) {
	if err := sc.Registry.SetTaskState(ctx, ctx.ProcessID(), state); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set state of task %s", state.Name))
	}
}

func withIdentifiers(ctx context.Context) context.Context {
	if ctx.ProcessID() == "" {
		ctx = context.WithProcessID(ctx, uuid.New().String())
	}
	if ctx.CorrelationID() == "" {
		ctx = context.WithCorrelationID(ctx, uuid.New().String())
	}
	return ctx
}
