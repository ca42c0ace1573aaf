package api

import (
	"untangle/pkg/schema"
)

const (
	// DocumentKey is the reserved state key holding the input document
	DocumentKey = "document"
)

// PipelineSpec is the specification of a Pipeline.
type PipelineSpec struct {
	Name string    `json:"name"` // Pipeline name.
	Root StageSpec `json:"root"`
	// TerminalSchema overrides the schema of the last task as the schema of the pipeline result.
	TerminalSchema *schema.Schema `json:"terminalSchema,omitempty"`
}

// StageSpec is the specification of a stage. Exactly one of Task, Sequential or Parallel is set.
type StageSpec struct {
	Name       string      `json:"name,omitempty"`
	Task       *TaskSpec   `json:"task,omitempty"`
	Sequential []StageSpec `json:"sequential,omitempty"`
	Parallel   []StageSpec `json:"parallel,omitempty"`
	// Tolerant lets a sequential stage continue after a parallel child partially failed.
	Tolerant bool `json:"tolerant,omitempty"`
}

// TaskSpec is the specification of a Task.
type TaskSpec struct {
	Name string `json:"name"`
	// Kind is the executor to be used to execute the task
	Kind        string         `json:"kind"`
	Instruction string         `json:"instruction"`
	Schema      *schema.Schema `json:"schema"`
	// Strict requests outputs restricted to the schema from the executor
	Strict bool `json:"strict,omitempty"`
}

// Tasks returns the task names of the stage in declaration order.
func (s StageSpec) Tasks() []string {
	var names []string
	s.walk(func(t TaskSpec) {
		names = append(names, t.Name)
	})
	return names
}

func (s StageSpec) walk(fn func(TaskSpec)) {
	if s.Task != nil {
		fn(*s.Task)
	}
	for _, c := range s.Sequential {
		c.walk(fn)
	}
	for _, c := range s.Parallel {
		c.walk(fn)
	}
}
