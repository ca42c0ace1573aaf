package template

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var state = map[string]interface{}{
	"document": "Sample ToS text",
	"summarizer": map[string]interface{}{
		"key_points":    []interface{}{"a", "b"},
		"document_type": "terms of service",
	},
	"risk_evaluator": map[string]interface{}{
		"risk_level": "High",
	},
}

func TestRender(t *testing.T) {
	t.Run("nodep", func(t *testing.T) {
		res, err := Render("plain instruction", ResolveWithMap(state))
		require.NoError(t, err)
		assert.Equal(t, "plain instruction", res)
	})

	t.Run("string_and_json", func(t *testing.T) {
		res, err := Render("Level @{risk_evaluator.risk_level}, points @{summarizer.key_points}", ResolveWithMap(state))
		require.NoError(t, err)
		assert.Equal(t, `Level High, points ["a","b"]`, res)
	})

	t.Run("whole_object", func(t *testing.T) {
		res, err := Render("@{risk_evaluator}", ResolveWithMap(state))
		require.NoError(t, err)
		assert.JSONEq(t, `{"risk_level":"High"}`, res)
	})

	t.Run("empty_expression_kept", func(t *testing.T) {
		res, err := Render("keep @{} as is", ResolveWithMap(state))
		require.NoError(t, err)
		assert.Equal(t, "keep @{} as is", res)
	})

	t.Run("unresolved", func(t *testing.T) {
		_, err := Render("needs @{risk_phrases.phrases}", ResolveWithMap(state))
		require.Error(t, err)
		var unresolved ErrUnresolved
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, "risk_phrases", unresolved.Expression.Key())
	})

	t.Run("unresolved_path", func(t *testing.T) {
		_, err := Render("@{summarizer.missing}", ResolveWithMap(state))
		require.Error(t, err)
	})
}

func TestTemplateResolve(t *testing.T) {
	t.Run("nodep", func(t *testing.T) {
		in := map[string]interface{}{"key": "foo", "num": 1}
		res, err := New(in).Resolve(ResolveWithMap(state))
		require.NoError(t, err)
		assert.Equal(t, in, res)
	})

	t.Run("typed_values", func(t *testing.T) {
		in := map[string]interface{}{
			"points": "@{summarizer.key_points}",
			"text":   "type=@{summarizer.document_type}",
			"arr":    []interface{}{"@{risk_evaluator.risk_level}", 2},
		}
		res, err := New(in).Resolve(ResolveWithMap(state))
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"points": []interface{}{"a", "b"},
			"text":   "type=terms of service",
			"arr":    []interface{}{"High", 2},
		}, res)
	})

	t.Run("error", func(t *testing.T) {
		in := map[string]interface{}{"key": "@{nope}"}
		_, err := New(in).Resolve(ResolveWithMap(state))
		require.Error(t, err)
	})
}
