package pipeline

import (
	"untangle/pkg/api"
	"untangle/pkg/executor"

	"github.com/pkg/errors"
)

// FromSpec builds the stage tree described by spec, looking executors up by kind in the registry.
func FromSpec(spec api.StageSpec, registry executor.Registry) (*Stage, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return fromSpec(spec, registry)
}

func fromSpec(spec api.StageSpec, registry executor.Registry) (*Stage, error) {
	if spec.Task != nil {
		e, err := registry.Get(spec.Task.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot build task %s", spec.Task.Name)
		}
		s := Task(TaskSpec{
			Name:        spec.Task.Name,
			Instruction: spec.Task.Instruction,
			Schema:      spec.Task.Schema,
			Executor:    e,
			Strict:      spec.Task.Strict,
		})
		return s, nil
	}

	specs, build := spec.Sequential, Sequential
	if spec.Parallel != nil {
		specs, build = spec.Parallel, Parallel
	}
	children := make([]*Stage, len(specs))
	for i, c := range specs {
		child, err := fromSpec(c, registry)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	s := build(children...)
	if spec.Name != "" {
		s.Named(spec.Name)
	}
	if spec.Tolerant {
		s.Tolerant()
	}
	return s, nil
}

// NewFromSpec returns a Runner for the pipeline described by spec.
func NewFromSpec(spec api.PipelineSpec, registry executor.Registry, opts ...Option) (*Runner, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	root, err := fromSpec(spec.Root, registry)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build pipeline %s", spec.Name)
	}
	if spec.TerminalSchema != nil {
		opts = append(opts, WithTerminalSchema(spec.TerminalSchema))
	}
	return New(root, opts...)
}
