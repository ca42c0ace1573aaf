package api

import (
	"github.com/pkg/errors"
)

// Validate validates the input pipeline specification
// Rules are:
// - Pipeline has a name
// - Every stage is exactly one of task, sequential or parallel
// - Composite stages have at least one child
// - Only sequential stages can be tolerant
// - Tasks have a name, a kind and a schema
// - "document" not permitted as task name
// Duplicate task names are reported when the pipeline is built.
func (p PipelineSpec) Validate() error {
	if p.Name == "" {
		return errors.New("pipeline name is required")
	}
	if err := p.Root.Validate(); err != nil {
		return errors.Wrapf(err, "invalid pipeline %s", p.Name)
	}
	return nil
}

// Validate validates the stage and its children.
func (s StageSpec) Validate() error {
	set := 0
	if s.Task != nil {
		set++
	}
	if s.Sequential != nil {
		set++
	}
	if s.Parallel != nil {
		set++
	}
	if set != 1 {
		return errors.Errorf("stage %s must be exactly one of task, sequential or parallel", s.label())
	}
	if s.Tolerant && s.Sequential == nil {
		return errors.Errorf("stage %s: only sequential stages can be tolerant", s.label())
	}

	if s.Task != nil {
		return s.Task.Validate()
	}
	children := s.Sequential
	if children == nil {
		children = s.Parallel
	}
	if len(children) == 0 {
		return errors.Errorf("stage %s has no children", s.label())
	}
	for i, c := range children {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "invalid child %d of stage %s", i, s.label())
		}
	}
	return nil
}

// Validate validates the task specification.
func (t TaskSpec) Validate() error {
	switch {
	case t.Name == "":
		return errors.New("task name is required")
	case t.Name == DocumentKey:
		return errors.Errorf("task name %s is reserved", DocumentKey)
	case t.Kind == "":
		return errors.Errorf("task %s: kind is required", t.Name)
	case t.Schema == nil:
		return errors.Errorf("task %s: schema is required", t.Name)
	}
	return nil
}

func (s StageSpec) label() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Task != nil && s.Task.Name != "" {
		return s.Task.Name
	}
	return "<unnamed>"
}
