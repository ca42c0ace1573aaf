package demistifier

import (
	"untangle/pkg/pipeline"
	"untangle/pkg/util/maps"

	"github.com/pkg/errors"
)

// GlossaryItem defines a legal term.
type GlossaryItem struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Explanation is a report item explained for both audiences.
type Explanation struct {
	LaymanExplanation    string         `json:"layman_explanation"`
	TechnicalExplanation string         `json:"technical_explanation"`
	Glossary             []GlossaryItem `json:"glossary"`
}

// Report is the final report of the analysis pipeline.
type Report struct {
	Summary     []Explanation `json:"summary"`
	RiskPhrases []Explanation `json:"risk_phrases"`
	Conclusion  Explanation   `json:"conclusion"`
}

// Phrase is a risky phrase quoted from the document.
type Phrase struct {
	Phrase   string `json:"phrase"`
	Location string `json:"location"`
	RiskType string `json:"risk_type"`
}

// RiskEvaluation is the output of the risk_evaluator task.
type RiskEvaluation struct {
	RiskySections []string `json:"risky_sections"`
	RiskLevel     string   `json:"risk_level"`
	RiskSummary   string   `json:"risk_summary"`
}

// Reply is the final output of the conversation pipeline.
type Reply struct {
	Answer     string   `json:"answer"`
	References []string `json:"references"`
}

// DecodeReport returns the report of a successful analysis run.
func DecodeReport(res pipeline.Result) (Report, error) {
	var r Report
	if err := res.Decode(&r); err != nil {
		return Report{}, errors.Wrap(err, "cannot decode report")
	}
	return r, nil
}

// DecodeRiskEvaluation returns the risk evaluation produced by a run, even a failed one.
func DecodeRiskEvaluation(res pipeline.Result) (RiskEvaluation, bool, error) {
	v, exists := res.State[RiskEvaluator]
	if !exists {
		return RiskEvaluation{}, false, nil
	}
	var r RiskEvaluation
	if err := maps.DecodeJSON(v, &r); err != nil {
		return RiskEvaluation{}, true, errors.Wrap(err, "cannot decode risk evaluation")
	}
	return r, true, nil
}

// DecodeReply returns the reply of a successful conversation run.
func DecodeReply(res pipeline.Result) (Reply, error) {
	var r Reply
	if err := res.Decode(&r); err != nil {
		return Reply{}, errors.Wrap(err, "cannot decode reply")
	}
	return r, nil
}
