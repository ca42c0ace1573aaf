package demistifier

import "untangle/pkg/schema"

// SummarySchema is the output of the summarizer task.
func SummarySchema() *schema.Schema {
	return schema.Object(
		schema.Field("key_points", schema.Array(schema.String()).Describe("Main points of the document in plain language")),
		schema.Field("document_type", schema.String().Describe("Type of the document, such as terms of service or privacy policy")),
		schema.Field("complexity_level", schema.String().Describe("Simple, Moderate or Complex")),
	)
}

// RiskEvaluationSchema is the output of the risk_evaluator task.
func RiskEvaluationSchema() *schema.Schema {
	return schema.Object(
		schema.Field("risky_sections", schema.Array(schema.String()).Describe("Sections that may disadvantage users")),
		schema.Field("risk_level", schema.String().Describe("Low, Medium, High or Critical")),
		schema.Field("risk_summary", schema.String()),
	)
}

// RiskPhraseSchema is the output of the risk_phrases task.
func RiskPhraseSchema() *schema.Schema {
	return schema.Object(
		schema.Field("phrases", schema.Array(schema.Object(
			schema.Field("phrase", schema.String().Describe("Exact text from the document")),
			schema.Field("location", schema.String().Describe("Section where the phrase appears")),
			schema.Field("risk_type", schema.String()),
		))),
	)
}

func glossary() *schema.Schema {
	return schema.Array(schema.Object(
		schema.Field("term", schema.String()),
		schema.Field("definition", schema.String()),
	))
}

func explained() *schema.Schema {
	return schema.Object(
		schema.Field("layman_explanation", schema.String().Describe("Jargon free explanation for general users")),
		schema.Field("technical_explanation", schema.String().Describe("Detailed legal analysis for professionals")),
		schema.Field("glossary", glossary()),
	)
}

// ReportSchema is the output of the merger task, and the final report of the pipeline.
func ReportSchema() *schema.Schema {
	return schema.Object(
		schema.Field("summary", schema.Array(explained())),
		schema.Field("risk_phrases", schema.Array(explained())),
		schema.Field("conclusion", explained()),
	)
}

// AnswerSchema is the output of the conversation task.
func AnswerSchema() *schema.Schema {
	return schema.Object(
		schema.Field("answer", schema.String()),
		schema.Field("references", schema.Array(schema.String()).Describe("Items of the user memory the answer relies on")),
	)
}
