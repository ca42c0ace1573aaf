package pipeline

import (
	gocontext "context"
	"time"
	"untangle/pkg/api"
	"untangle/pkg/executor"
	"untangle/pkg/schema"
	"untangle/pkg/store"
	"untangle/pkg/util/context"
	"untangle/pkg/util/template"

	"github.com/pkg/errors"
)

// runTask renders the task instruction against view, invokes the executor and validates its output.
// It never retries.
func runTask(ctx context.Context, spec *TaskSpec, view store.View) (store.Entry, error) {
	instruction, err := template.Render(spec.Instruction, template.ResolveWithMap(view.Map()))
	if err != nil {
		kind := KindExecution
		if errors.As(err, &template.ErrUnresolved{}) {
			kind = KindMissingDependency
		}
		return store.Entry{}, &TaskError{Task: spec.Name, Kind: kind, Err: err}
	}

	document, _ := view.Get(api.DocumentKey)
	doc, _ := document.(string)

	out, err := spec.Executor.Invoke(ctx, executor.Request{
		Task:        spec.Name,
		Instruction: instruction,
		Document:    doc,
		Schema:      spec.Schema,
		Strict:      spec.Strict,
	})
	if ctx.Err() != nil {
		// Results produced after cancellation are discarded.
		return store.Entry{}, &TaskError{Task: spec.Name, Kind: KindExecution, Err: ctx.Err()}
	}
	if err != nil {
		return store.Entry{}, &TaskError{Task: spec.Name, Kind: KindExecution, Err: errors.Wrap(err, "executor failed")}
	}

	validated, err := schema.Validate(spec.Schema, out)
	if err != nil {
		return store.Entry{}, &TaskError{Task: spec.Name, Kind: KindSchema, Err: err}
	}
	return store.Entry{Key: spec.Name, Value: validated}, nil
}

// task runs a task stage with the runner retry policy and appends its output to w.
func (e *execution) task(ctx context.Context, spec *TaskSpec, w store.Writer) error {
	ctx = context.WithTaskName(ctx, spec.Name)
	start := time.Now()
	state := api.TaskState{
		Name:      spec.Name,
		Status:    api.StatusRunning,
		StartTime: &start,
	}
	e.notify(ctx, state)
	ctx.Logger().Debugf("starting task %s", spec.Name)

	var entry store.Entry
	var err error
	for attempt := 1; ; attempt++ {
		state.Attempts = attempt
		entry, err = runTask(ctx, spec, store.Snapshot(w))
		if err == nil || attempt > e.cfg.Retries || !KindOf(err).retryable() || ctx.Err() != nil {
			break
		}
		ctx.Logger().Warnf("retrying task %s after attempt %d: %v", spec.Name, attempt, err)
	}
	if err == nil {
		if perr := w.Put(entry); perr != nil {
			err = &TaskError{Task: spec.Name, Kind: KindDuplicateKey, Err: perr}
		}
	}

	end := time.Now()
	state.EndTime = &end
	switch {
	case err == nil:
		state.Status = api.StatusCompleted
		ctx.Logger().Debugf("task %s completed in %s", spec.Name, end.Sub(start))
	case isCancellation(err):
		state.Status = api.StatusCancelled
		state.Error = err.Error()
		ctx.Logger().Debugf("task %s cancelled", spec.Name)
	default:
		state.Status = api.StatusFailed
		state.Error = err.Error()
		ctx.Logger().Errorf("task %s failed: %v", spec.Name, err)
	}
	e.notify(ctx, state)
	return err
}

// isCancellation reports whether err comes from a cancelled or expired context.
func isCancellation(err error) bool {
	return errors.Is(err, gocontext.Canceled) || errors.Is(err, gocontext.DeadlineExceeded)
}
