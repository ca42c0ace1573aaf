package pipeline

import (
	"fmt"
	"strings"
	"untangle/pkg/api"

	"github.com/pkg/errors"
)

// Kind is the category of a pipeline error.
type Kind string

const (
	// KindSchema is an output not matching the task schema.
	KindSchema Kind = "SchemaError"
	// KindMissingDependency is an instruction referring to a state key not written yet.
	KindMissingDependency Kind = "MissingDependency"
	// KindExecution is a failure of the executor.
	KindExecution Kind = "ExecutionError"
	// KindDuplicateKey is two tasks sharing a name, or a task named after a reserved key.
	KindDuplicateKey Kind = "DuplicateKey"
	// KindTimeout is the pipeline deadline being exceeded.
	KindTimeout Kind = "Timeout"
	// KindAggregate is one or more parallel children failing.
	KindAggregate Kind = "AggregateFailure"
)

// retryable reports whether a task failing with this kind may be attempted again.
func (k Kind) retryable() bool {
	return k == KindSchema || k == KindExecution
}

// TaskError is the failure of a single task.
type TaskError struct {
	Task string
	Kind Kind
	Err  error
}

func (err *TaskError) Error() string {
	if err.Task == "" {
		return fmt.Sprintf("%s: %v", err.Kind, err.Err)
	}
	return fmt.Sprintf("task %s failed with %s: %v", err.Task, err.Kind, err.Err)
}

// Unwrap returns the underlying error.
func (err *TaskError) Unwrap() error {
	return err.Err
}

// AggregateError is the failure of a parallel stage. It lists the failed children in declaration order;
// children cancelled because a sibling failed are not listed.
type AggregateError struct {
	Stage  string
	Errors []error
	// Empty is true when no child succeeded.
	Empty bool
}

func (err *AggregateError) Error() string {
	msgs := make([]string, len(err.Errors))
	for i, e := range err.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d children of stage %s failed: %s", len(err.Errors), err.Stage, strings.Join(msgs, "; "))
}

// KindOf returns the kind of err. Errors not raised by the pipeline are execution errors.
func KindOf(err error) Kind {
	var agg *AggregateError
	if errors.As(err, &agg) {
		return KindAggregate
	}
	var terr *TaskError
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return KindExecution
}

// Failure describes why a pipeline run failed.
type Failure struct {
	// Task is the originating task, empty for an aggregate of several failures.
	Task string
	Kind Kind
	Err  error
	// Children lists the failures of an aggregate.
	Children []Failure
}

// NewFailure builds the failure of err.
// An aggregate whose failures all come down to a single task is reported as that task failure.
func NewFailure(err error) *Failure {
	if leaves := leafErrors(err); len(leaves) == 1 {
		var terr *TaskError
		if errors.As(leaves[0], &terr) {
			return &Failure{Task: terr.Task, Kind: terr.Kind, Err: terr}
		}
	}
	var agg *AggregateError
	if errors.As(err, &agg) {
		f := Failure{Task: "", Kind: KindAggregate, Err: agg}
		for _, e := range agg.Errors {
			f.Children = append(f.Children, *NewFailure(e))
		}
		return &f
	}
	var terr *TaskError
	if errors.As(err, &terr) {
		return &Failure{Task: terr.Task, Kind: terr.Kind, Err: terr}
	}
	return &Failure{Kind: KindExecution, Err: err}
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

// API returns the transport representation of the failure.
func (f *Failure) API() *api.Failure {
	res := api.Failure{
		Task:    f.Task,
		Kind:    string(f.Kind),
		Message: f.Err.Error(),
	}
	for _, c := range f.Children {
		res.Children = append(res.Children, *c.API())
	}
	return &res
}

// Tasks returns the failed tasks, in declaration order.
func (f *Failure) Tasks() []string {
	if len(f.Children) == 0 {
		if f.Task == "" {
			return nil
		}
		return []string{f.Task}
	}
	var res []string
	for _, c := range f.Children {
		res = append(res, c.Tasks()...)
	}
	return res
}

// leafErrors returns the non aggregate errors contained in err.
func leafErrors(err error) []error {
	var agg *AggregateError
	if !errors.As(err, &agg) {
		return []error{err}
	}
	var res []error
	for _, e := range agg.Errors {
		res = append(res, leafErrors(e)...)
	}
	return res
}
