// Package executor defines the capability a task delegates its reasoning to.
package executor

import (
	"fmt"
	"sort"
	"untangle/pkg/schema"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
)

// Request is what a task sends to its executor.
type Request struct {
	// Task is the name of the calling task.
	Task string
	// Instruction is the rendered task instruction.
	Instruction string
	// Document is the input document of the pipeline.
	Document string
	// Schema is the structure the output must follow.
	Schema *schema.Schema
	// Strict requests an output restricted to Schema, without undeclared properties.
	Strict bool
}

// Executor is the mechanism used to run tasks.
// Invoke may block and must return when ctx is done.
// The returned output is validated by the caller, so it may be a JSON string or bytes,
// a JSON-like map or any value encoding/json can marshal.
type Executor interface {
	Invoke(ctx context.Context, req Request) (interface{}, error)
}

// Func is an Executor backed by a function.
type Func func(ctx context.Context, req Request) (interface{}, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, req Request) (interface{}, error) {
	return f(ctx, req)
}

// Registry references executors by kind.
type Registry map[string]Executor

// ErrUnknownKind is returned when no executor is registered for a kind.
type ErrUnknownKind struct {
	Kind string
}

func (err ErrUnknownKind) Error() string {
	return fmt.Sprintf("no executor for kind %s", err.Kind)
}

// Get returns the executor registered for kind.
func (r Registry) Get(kind string) (Executor, error) {
	e, exists := r[kind]
	if !exists || e == nil {
		return nil, errors.WithStack(ErrUnknownKind{kind})
	}
	return e, nil
}

// Kinds returns the registered kinds, sorted.
func (r Registry) Kinds() []string {
	kinds := make([]string, 0, len(r))
	for k := range r {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
