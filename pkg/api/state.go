package api

import (
	"time"
)

// PipelineInfo represents basic pipeline information
type PipelineInfo struct {
	Name      string `json:"name"`
	ProcessID string `json:"processID"`
	Status    Status `json:"status"`
}

// PipelineState represents pipeline state.
type PipelineState struct {
	ProcessID  string      `json:"processID"`
	Name       string      `json:"name"`
	Status     Status      `json:"status"`
	Tasks      []TaskState `json:"tasks,omitempty"`
	CreateTime *time.Time  `json:"createTime,omitempty"`
	StartTime  *time.Time  `json:"startTime,omitempty"`
	EndTime    *time.Time  `json:"endTime,omitempty"`
}

// TaskState represents task state.
type TaskState struct {
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	Attempts  int        `json:"attempts,omitempty"`
	Error     string     `json:"error,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Failure describes why a pipeline failed: the originating task, the error kind and,
// for aggregate failures, every failed child.
type Failure struct {
	Task     string    `json:"task,omitempty"`
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
	Children []Failure `json:"children,omitempty"`
}

// RunResult is the outcome of a finished pipeline: either a validated value or a failure.
type RunResult struct {
	Status  Status      `json:"status"`
	Value   interface{} `json:"value,omitempty"`
	Failure *Failure    `json:"failure,omitempty"`
}

// RunRequest is the payload submitted to start a run.
type RunRequest struct {
	// Document is the text to analyze.
	Document string `json:"document"`
	// UserID identifies the user whose memory is loaded by conversational flows.
	UserID string `json:"user,omitempty"`
	// Message is the user message; the router uses it to pick the pipeline.
	Message string `json:"message,omitempty"`
	// Pipeline forces the pipeline, bypassing the router.
	Pipeline string `json:"pipeline,omitempty"`
	// Spec runs a custom pipeline, bypassing the router.
	Spec *PipelineSpec `json:"spec,omitempty"`
}

// RunResponse is returned when a run is accepted.
type RunResponse struct {
	ProcessID string `json:"processID"`
	Pipeline  string `json:"pipeline"`
}
