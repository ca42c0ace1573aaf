package pipeline

import (
	"untangle/pkg/executor"
	"untangle/pkg/schema"
)

// NodeType is the variant of a stage.
type NodeType string

const (
	// TypeTask is a single task.
	TypeTask NodeType = "task"
	// TypeSequential runs its children one after the other.
	TypeSequential NodeType = "sequential"
	// TypeParallel runs its children concurrently.
	TypeParallel NodeType = "parallel"
)

// TaskSpec is the definition of a task.
type TaskSpec struct {
	// Name identifies the task and is the state key of its output.
	Name string
	// Instruction is rendered against the state before invoking the executor.
	// It may refer to @{document}, @{task} or @{task.path.to.field}.
	Instruction string
	// Schema is the structure the task output must follow.
	Schema   *schema.Schema
	Executor executor.Executor
	// Strict requests outputs restricted to Schema from the executor.
	Strict bool
}

// Stage is a node of the stage tree: a task, or a sequential or parallel composition of stages.
type Stage struct {
	name     string
	kind     NodeType
	task     *TaskSpec
	children []*Stage
	tolerant bool
}

// Task returns a stage running a single task.
func Task(spec TaskSpec) *Stage {
	return &Stage{
		name: spec.Name,
		kind: TypeTask,
		task: &spec,
	}
}

// Sequential returns a stage running its children in order.
// The first failing child stops the stage, unless the stage is tolerant and the failure is
// a parallel child partially failing.
func Sequential(children ...*Stage) *Stage {
	return &Stage{
		kind:     TypeSequential,
		children: children,
	}
}

// Parallel returns a stage running its children concurrently against the state at entry.
// Outputs of the children are merged in declaration order once all of them are done.
func Parallel(children ...*Stage) *Stage {
	return &Stage{
		kind:     TypeParallel,
		children: children,
	}
}

// Named sets the name of the stage, used in logs and errors, and returns it.
func (s *Stage) Named(name string) *Stage {
	s.name = name
	return s
}

// Tolerant marks a sequential stage as tolerant of partial parallel failures and returns it.
// It has no effect on other stages.
func (s *Stage) Tolerant() *Stage {
	if s.kind == TypeSequential {
		s.tolerant = true
	}
	return s
}

// Name returns the stage name. Task stages are named after their task.
func (s *Stage) Name() string {
	if s.name != "" {
		return s.name
	}
	return string(s.kind)
}

// Type returns the variant of the stage.
func (s *Stage) Type() NodeType {
	return s.kind
}

// IsTolerant reports whether the stage is a tolerant sequential stage.
func (s *Stage) IsTolerant() bool {
	return s.tolerant
}

// Children returns the children of a composite stage.
func (s *Stage) Children() []*Stage {
	return s.children
}

// Spec returns the task of a task stage, nil otherwise.
func (s *Stage) Spec() *TaskSpec {
	return s.task
}

// Tasks returns the tasks of the stage tree in declaration order.
func (s *Stage) Tasks() []*TaskSpec {
	if s.task != nil {
		return []*TaskSpec{s.task}
	}
	var res []*TaskSpec
	for _, c := range s.children {
		res = append(res, c.Tasks()...)
	}
	return res
}

// TaskNames returns the task names of the stage tree in declaration order.
func (s *Stage) TaskNames() []string {
	tasks := s.Tasks()
	res := make([]string, len(tasks))
	for i, t := range tasks {
		res[i] = t.Name
	}
	return res
}

// last returns the last task the stage executes, nil for a parallel stage.
func (s *Stage) last() *TaskSpec {
	switch s.kind {
	case TypeTask:
		return s.task
	case TypeSequential:
		if len(s.children) == 0 {
			return nil
		}
		return s.children[len(s.children)-1].last()
	}
	return nil
}
