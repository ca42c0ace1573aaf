package api

import (
	"encoding/json"
	"testing"

	"untangle/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineJSON = `{
	"name": "risk",
	"root": {
		"sequential": [
			{
				"name": "analysis",
				"parallel": [
					{"task": {"name": "summarizer", "kind": "dummy", "instruction": "Summarize @{document}", "schema": {"type": "object", "properties": {"key_points": {"type": "array", "items": {"type": "string"}}}, "required": ["key_points"]}}},
					{"sequential": [
						{"task": {"name": "risk_evaluator", "kind": "dummy", "instruction": "Evaluate", "schema": {"type": "object", "properties": {"risk_level": {"type": "string"}}, "required": ["risk_level"]}}},
						{"task": {"name": "risk_phrases", "kind": "dummy", "instruction": "Level @{risk_evaluator.risk_level}", "schema": {"type": "object", "properties": {"phrases": {"type": "array", "items": {"type": "string"}}}}}}
					]}
				]
			},
			{"task": {"name": "merger", "kind": "llm", "strict": true, "instruction": "Merge", "schema": {"type": "object", "properties": {"conclusion": {"type": "string"}}}}}
		],
		"tolerant": true
	}
}`

func TestPipelineSpecJSON(t *testing.T) {
	var p PipelineSpec
	require.NoError(t, json.Unmarshal([]byte(pipelineJSON), &p))
	require.NoError(t, p.Validate())

	assert.Equal(t, "risk", p.Name)
	assert.True(t, p.Root.Tolerant)
	assert.Equal(t, []string{"summarizer", "risk_evaluator", "risk_phrases", "merger"}, p.Root.Tasks())

	merger := p.Root.Sequential[1].Task
	require.NotNil(t, merger)
	assert.True(t, merger.Strict)
	assert.Equal(t, "llm", merger.Kind)
	assert.Equal(t, schema.TypeObject, merger.Schema.Type)
}

func TestValidate(t *testing.T) {
	obj := schema.Object(schema.Field("x", schema.String()))
	task := func(name string) StageSpec {
		return StageSpec{Task: &TaskSpec{Name: name, Kind: "dummy", Schema: obj}}
	}

	tests := []struct {
		name string
		spec PipelineSpec
		ok   bool
	}{
		{"ok", PipelineSpec{Name: "p", Root: StageSpec{Sequential: []StageSpec{task("a"), task("b")}}}, true},
		{"no_name", PipelineSpec{Root: task("a")}, false},
		{"empty_stage", PipelineSpec{Name: "p", Root: StageSpec{}}, false},
		{"two_variants", PipelineSpec{Name: "p", Root: StageSpec{Task: task("a").Task, Parallel: []StageSpec{task("b")}}}, false},
		{"no_children", PipelineSpec{Name: "p", Root: StageSpec{Parallel: []StageSpec{}}}, false},
		{"tolerant_parallel", PipelineSpec{Name: "p", Root: StageSpec{Parallel: []StageSpec{task("a")}, Tolerant: true}}, false},
		{"reserved_name", PipelineSpec{Name: "p", Root: task(DocumentKey)}, false},
		{"no_schema", PipelineSpec{Name: "p", Root: StageSpec{Task: &TaskSpec{Name: "a", Kind: "dummy"}}}, false},
		{"no_kind", PipelineSpec{Name: "p", Root: StageSpec{Task: &TaskSpec{Name: "a", Schema: obj}}}, false},
		{"nested_invalid", PipelineSpec{Name: "p", Root: StageSpec{Sequential: []StageSpec{task("a"), {Parallel: []StageSpec{task("")}}}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStatusFinished(t *testing.T) {
	assert.False(t, StatusCreated.Finished())
	assert.False(t, StatusRunning.Finished())
	assert.True(t, StatusCompleted.Finished())
	assert.True(t, StatusFailed.Finished())
	assert.True(t, StatusCancelled.Finished())
}
