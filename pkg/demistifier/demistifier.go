// Package demistifier defines the legal document analysis pipeline and the conversation pipeline answering
// questions from the user memory.
package demistifier

import (
	"untangle/pkg/executor"
	"untangle/pkg/memory"
	"untangle/pkg/pipeline"
	"untangle/pkg/schema"

	"github.com/pkg/errors"
)

// Task names, which are also the state keys of their outputs.
const (
	Summarizer    = "summarizer"
	RiskEvaluator = "risk_evaluator"
	RiskPhrases   = "risk_phrases"
	Merger        = "merger"
	Answer        = "answer"
)

// UserKey is the state key of the user memory in the conversation pipeline.
const UserKey = "user"

// Pipeline returns the stage tree of the analysis:
// the summary and the risk analysis run in parallel, then the merger builds the report.
func Pipeline(e executor.Executor) *pipeline.Stage {
	return pipeline.Sequential(
		pipeline.Parallel(
			pipeline.Task(pipeline.TaskSpec{
				Name:        Summarizer,
				Instruction: summarizerInstruction,
				Schema:      SummarySchema(),
				Executor:    e,
			}),
			pipeline.Sequential(
				pipeline.Task(pipeline.TaskSpec{
					Name:        RiskEvaluator,
					Instruction: riskEvaluatorInstruction,
					Schema:      RiskEvaluationSchema(),
					Executor:    e,
				}),
				pipeline.Task(pipeline.TaskSpec{
					Name:        RiskPhrases,
					Instruction: riskPhrasesInstruction,
					Schema:      RiskPhraseSchema(),
					Executor:    e,
				}),
			).Named("risk_analysis"),
		).Named("analysis"),
		pipeline.Task(pipeline.TaskSpec{
			Name:        Merger,
			Instruction: mergerInstruction,
			Schema:      ReportSchema(),
			Executor:    e,
			Strict:      true,
		}),
	).Named("demistifier")
}

// New returns a runner of the analysis pipeline.
func New(e executor.Executor, opts ...pipeline.Option) (*pipeline.Runner, error) {
	if e == nil {
		return nil, errors.New("executor is required")
	}
	return pipeline.New(Pipeline(e), opts...)
}

// ConversationPipeline returns the stage tree answering a user request from the user memory.
func ConversationPipeline(e executor.Executor) *pipeline.Stage {
	return pipeline.Sequential(
		pipeline.Task(pipeline.TaskSpec{
			Name:        Answer,
			Instruction: conversationInstruction,
			Schema:      AnswerSchema(),
			Executor:    e,
		}),
	).Named("conversation")
}

// NewConversation returns a runner of the conversation pipeline for the user.
// The memory of the user is seeded in the state under UserKey; the document of a run is the user request.
func NewConversation(e executor.Executor, user memory.UserData, opts ...pipeline.Option) (*pipeline.Runner, error) {
	if e == nil {
		return nil, errors.New("executor is required")
	}
	seed, err := schema.Normalize(user)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot encode memory of user %s", user.UserID)
	}
	opts = append([]pipeline.Option{pipeline.WithSeed(UserKey, seed)}, opts...)
	return pipeline.New(ConversationPipeline(e), opts...)
}
