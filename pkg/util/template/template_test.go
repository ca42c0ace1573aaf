package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressionString(t *testing.T) {
	e := Expression{
		Text: "risk_evaluator.risk_level",
	}
	assert.Equal(t, "@{risk_evaluator.risk_level}", e.String())
	assert.Equal(t, "risk_evaluator", e.Key())
}

func TestTemplateFindAll(t *testing.T) {
	in := map[string]interface{}{
		"key1": "@{document}",
		"key2": "summary: @{summarizer.key_points} risk @{risk_evaluator.risk_level}@{}",
		"obj": map[string]interface{}{
			"key3": "@{ risk_phrases }",
		},
		"arr":  []interface{}{"@{merger}"},
		"key4": true,
	}

	tpl := New(in)
	expressions := tpl.FindAll()
	assert.Len(t, expressions, 5)
	assert.Contains(t, expressions, Expression{Text: "document"})
	assert.Contains(t, expressions, Expression{Text: "summarizer.key_points"})
	assert.Contains(t, expressions, Expression{Text: "risk_evaluator.risk_level"})
	assert.Contains(t, expressions, Expression{Text: "risk_phrases"})
	assert.Contains(t, expressions, Expression{Text: "merger"})

	assert.Equal(t, []string{"document", "merger", "risk_evaluator", "risk_phrases", "summarizer"}, tpl.Keys())
}
