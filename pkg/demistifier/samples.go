package demistifier

func explanation(layman, technical, term, definition string) map[string]interface{} {
	return map[string]interface{}{
		"layman_explanation":    layman,
		"technical_explanation": technical,
		"glossary": []interface{}{
			map[string]interface{}{"term": term, "definition": definition},
		},
	}
}

// SamplePayloads returns a valid output for every task of the analysis and conversation pipelines,
// keyed by task name. It is meant for the dummy executor.
func SamplePayloads() map[string]interface{} {
	return map[string]interface{}{
		Summarizer: map[string]interface{}{
			"key_points": []interface{}{
				"The service may be terminated at any time without notice.",
				"Disputes are settled by binding arbitration.",
			},
			"document_type":    "Terms of Service",
			"complexity_level": "Moderate",
		},
		RiskEvaluator: map[string]interface{}{
			"risky_sections": []interface{}{"Termination", "Dispute Resolution"},
			"risk_level":     "High",
			"risk_summary":   "The provider keeps broad rights to end the service and users waive class actions.",
		},
		RiskPhrases: map[string]interface{}{
			"phrases": []interface{}{
				map[string]interface{}{
					"phrase":    "we may terminate your access at any time, for any reason",
					"location":  "Section 7 - Termination",
					"risk_type": "unilateral change",
				},
			},
		},
		Merger: map[string]interface{}{
			"summary": []interface{}{
				explanation(
					"They can close your account whenever they want.",
					"The termination clause grants the provider a discretionary right of termination without cause or notice.",
					"Termination for convenience", "Ending a contract without having to give a reason.",
				),
			},
			"risk_phrases": []interface{}{
				explanation(
					"You cannot join a group lawsuit against them.",
					"The class action waiver limits collective redress and is enforceable in most jurisdictions.",
					"Class action waiver", "A clause giving up the right to sue as part of a group.",
				),
			},
			"conclusion": explanation(
				"Read the termination and dispute sections before accepting.",
				"The agreement allocates most risk to the user through termination and arbitration clauses.",
				"Arbitration", "Settling a dispute outside the courts, before a private arbitrator.",
			),
		},
		Answer: map[string]interface{}{
			"answer":     "The last document you analysed allows the provider to close your account without notice.",
			"references": []interface{}{"Terms of Service"},
		},
	}
}
