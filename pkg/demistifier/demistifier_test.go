package demistifier

import (
	gocontext "context"
	"sync"
	"testing"
	"untangle/pkg/api"
	"untangle/pkg/executor"
	"untangle/pkg/executor/executortest"
	"untangle/pkg/memory"
	"untangle/pkg/pipeline"
	"untangle/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline(t *testing.T) {
	root := Pipeline(nil)
	assert.Equal(t, []string{Summarizer, RiskEvaluator, RiskPhrases, Merger}, root.TaskNames())
	assert.Equal(t, pipeline.TypeSequential, root.Type())
	assert.Equal(t, pipeline.TypeParallel, root.Children()[0].Type())

	_, err := New(nil)
	assert.Error(t, err)
}

func TestAnalysis(t *testing.T) {
	payloads := SamplePayloads()

	t.Run("success", func(t *testing.T) {
		m := &executortest.Mock{}
		for _, task := range []string{Summarizer, RiskEvaluator, RiskPhrases, Merger} {
			m.On("Invoke", task).Return(payloads[task], nil).Once()
		}
		r, err := New(m)
		require.NoError(t, err)

		res := r.Execute(gocontext.Background(), "Sample ToS text")
		require.True(t, res.Succeeded(), "unexpected failure: %v", res.Failure)
		m.AssertExpectations(t)

		value, isMap := res.Value.(map[string]interface{})
		require.True(t, isMap)
		assert.Contains(t, value, "summary")
		assert.Contains(t, value, "risk_phrases")
		assert.Contains(t, value, "conclusion")

		assert.Len(t, res.State, 4)
		for _, task := range []string{Summarizer, RiskEvaluator, RiskPhrases, Merger} {
			assert.Contains(t, res.State, task)
		}
		assert.Equal(t, Merger, res.Keys[len(res.Keys)-1])

		report, err := DecodeReport(res)
		require.NoError(t, err)
		assert.Len(t, report.Summary, 1)
		assert.Equal(t, "Arbitration", report.Conclusion.Glossary[0].Term)

		eval, exists, err := DecodeRiskEvaluation(res)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "High", eval.RiskLevel)
	})

	t.Run("risk_level_missing", func(t *testing.T) {
		outputs := SamplePayloads()
		outputs[RiskEvaluator] = map[string]interface{}{
			"risky_sections": []interface{}{"Termination"},
			"risk_summary":   "broad termination rights",
		}
		counter := executortest.NewCounter(executortest.Payloads(outputs, nil))
		r, err := New(counter)
		require.NoError(t, err)

		res := r.Execute(gocontext.Background(), "Sample ToS text")
		assert.Equal(t, api.StatusFailed, res.Status)
		require.NotNil(t, res.Failure)
		assert.Equal(t, pipeline.KindSchema, res.Failure.Kind)
		assert.Equal(t, RiskEvaluator, res.Failure.Task)
		assert.Nil(t, res.Value)

		assert.Equal(t, 1, counter.Count(RiskEvaluator))
		assert.Equal(t, 0, counter.Count(RiskPhrases))
		assert.Equal(t, 0, counter.Count(Merger))

		_, err = DecodeReport(res)
		assert.Error(t, err)
		_, exists, err := DecodeRiskEvaluation(res)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("instructions", func(t *testing.T) {
		var mutex sync.Mutex
		instructions := make(map[string]string)
		e := executor.Func(func(ctx context.Context, req executor.Request) (interface{}, error) {
			mutex.Lock()
			instructions[req.Task] = req.Instruction
			mutex.Unlock()
			assert.Equal(t, "Sample ToS text", req.Document)
			return payloads[req.Task], nil
		})
		r, err := New(e)
		require.NoError(t, err)

		res := r.Execute(gocontext.Background(), "Sample ToS text")
		require.True(t, res.Succeeded())
		assert.Contains(t, instructions[RiskPhrases], "broad rights to end the service")
		assert.Contains(t, instructions[Merger], "binding arbitration")
		assert.Contains(t, instructions[Merger], "Section 7 - Termination")
		assert.NotContains(t, instructions[Merger], "@{")
	})
}

func TestConversation(t *testing.T) {
	user := memory.UserData{
		UserID:          "u1",
		Profile:         memory.Profile{Name: "Jane"},
		RecentDocuments: []string{"Terms of Service"},
	}

	var instruction string
	e := executor.Func(func(ctx context.Context, req executor.Request) (interface{}, error) {
		instruction = req.Instruction
		assert.Equal(t, "what did I sign?", req.Document)
		return SamplePayloads()[Answer], nil
	})
	r, err := NewConversation(e, user)
	require.NoError(t, err)

	res := r.Execute(gocontext.Background(), "what did I sign?")
	require.True(t, res.Succeeded(), "unexpected failure: %v", res.Failure)
	assert.Contains(t, instruction, "Jane")
	assert.Contains(t, instruction, "Terms of Service")
	assert.Equal(t, []string{Answer}, res.Keys)

	reply, err := DecodeReply(res)
	require.NoError(t, err)
	assert.Equal(t, []string{"Terms of Service"}, reply.References)

	_, err = NewConversation(nil, user)
	assert.Error(t, err)
}
