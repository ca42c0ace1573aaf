package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"untangle/pkg/executor"
	"untangle/pkg/schema"
	"untangle/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var riskSchema = schema.Object(
	schema.Field("risk_level", schema.Enum("Low", "Medium", "High")),
	schema.Field("risk_summary", schema.String()),
)

func TestNew(t *testing.T) {
	_, err := New(Config{Model: "m"})
	assert.Error(t, err)
	_, err = New(Config{URI: "http://localhost"})
	assert.Error(t, err)
	_, err = New(Config{URI: "http://localhost", Model: "m", RetryMax: 1})
	assert.NoError(t, err)
}

func TestInvoke(t *testing.T) {
	var received completionRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, completionsPath, r.URL.Path)
		auth = r.Header.Get("authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{\"risk_level\": \"High\", \"risk_summary\": \"s\"}"}, "finish_reason": "stop"}]}`))
	}))
	defer srv.Close()

	e, err := New(Config{URI: srv.URL + "/", Model: "gpt-test", APIKey: "secret", Temperature: 0.2})
	require.NoError(t, err)

	t.Run("strict", func(t *testing.T) {
		out, err := e.Invoke(context.Background(), executor.Request{
			Task:        "risk evaluator",
			Instruction: "Evaluate risks",
			Document:    "Sample ToS text",
			Schema:      riskSchema,
			Strict:      true,
		})
		require.NoError(t, err)

		v, err := schema.Validate(riskSchema, out)
		require.NoError(t, err)
		assert.Equal(t, "High", v.(map[string]interface{})["risk_level"])

		assert.Equal(t, "Bearer secret", auth)
		assert.Equal(t, "gpt-test", received.Model)
		assert.Equal(t, 0.2, received.Temperature)
		require.Len(t, received.Messages, 2)
		assert.Equal(t, message{Role: "system", Content: "Evaluate risks"}, received.Messages[0])
		assert.Equal(t, message{Role: "user", Content: "Sample ToS text"}, received.Messages[1])

		assert.Equal(t, "json_schema", received.ResponseFormat["type"])
		js := received.ResponseFormat["json_schema"].(map[string]interface{})
		assert.Equal(t, "risk_evaluator", js["name"])
		assert.Equal(t, true, js["strict"])
		assert.Equal(t, false, js["schema"].(map[string]interface{})["additionalProperties"])
	})

	t.Run("not_strict", func(t *testing.T) {
		_, err := e.Invoke(context.Background(), executor.Request{
			Task:        "risk_evaluator",
			Instruction: "Evaluate risks",
			Schema:      riskSchema,
		})
		require.NoError(t, err)
		assert.Equal(t, "json_object", received.ResponseFormat["type"])
		assert.Contains(t, received.Messages[0].Content, "risk_summary")
	})
}

func TestInvokeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		msg    string
	}{
		{"bad_request", http.StatusBadRequest, `{"error": {"message": "invalid schema"}}`, "invalid schema"},
		{"no_choice", http.StatusOK, `{"choices": []}`, "no choice"},
		{"refusal", http.StatusOK, `{"choices": [{"message": {"refusal": "cannot help"}}]}`, "cannot help"},
		{"truncated", http.StatusOK, `{"choices": [{"message": {"content": "{"}, "finish_reason": "length"}]}`, "truncated"},
		{"not_json", http.StatusOK, `oops`, "cannot decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			e, err := New(Config{URI: srv.URL, Model: "m"})
			require.NoError(t, err)
			_, err = e.Invoke(context.Background(), executor.Request{Task: "t", Schema: riskSchema, Strict: true})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRequest(t *testing.T) {
	l := &llm{cfg: Config{Model: "m"}}

	req, err := l.request(executor.Request{Task: "summarizer", Instruction: "Summarize", Schema: riskSchema})
	require.NoError(t, err)
	assert.Equal(t, "json_object", req.ResponseFormat["type"])
	assert.Contains(t, req.Messages[0].Content, "Answer with a JSON document following this JSON schema")
	assert.Contains(t, req.Messages[0].Content, `"risk_level"`)

	req, err = l.request(executor.Request{Task: "summarizer", Instruction: "Summarize"})
	require.NoError(t, err)
	assert.Equal(t, "Summarize", req.Messages[0].Content)
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "risk_phrases", schemaName("risk_phrases"))
	assert.Equal(t, "a_b_c", schemaName("a b.c"))
	assert.Equal(t, "output", schemaName(""))
}
