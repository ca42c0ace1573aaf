// Package llm implements an executor calling an OpenAI compatible chat completions endpoint
// with structured outputs.
package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"untangle/pkg/executor"
	"untangle/pkg/util/context"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// Kind is the kind the llm executor is registered under.
const Kind = "llm"

const completionsPath = "/chat/completions"

// Config is the configuration of the llm executor.
type Config struct {
	URI         string  `json:"uri" env:"EXECUTOR_URI"`
	Model       string  `json:"model" env:"EXECUTOR_MODEL"`
	APIKey      string  `json:"apiKey" env:"EXECUTOR_API_KEY"`
	Temperature float64 `json:"temperature" env:"EXECUTOR_TEMPERATURE"`
	RetryMax    int     `json:"retryMax" env:"EXECUTOR_RETRY_MAX"`
}

// New returns a new llm executor.
func New(cfg Config) (executor.Executor, error) {
	if cfg.URI == "" {
		return nil, errors.New("executor uri is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("executor model is required")
	}
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	if cfg.RetryMax > 0 {
		httpcli.RetryMax = cfg.RetryMax
	}
	return &llm{
		httpcli: httpcli,
		cfg:     cfg,
		uri:     strings.TrimRight(cfg.URI, "/"),
	}, nil
}

type llm struct {
	httpcli *retryablehttp.Client
	cfg     Config
	uri     string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model          string                 `json:"model"`
	Messages       []message              `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (l *llm) Invoke(ctx context.Context, req executor.Request) (interface{}, error) {
	creq, err := l.request(req)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(creq)
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal request")
	}

	httpreq, err := retryablehttp.NewRequest(http.MethodPost, l.uri+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create request")
	}
	httpreq.Header.Set("content-type", "application/json")
	if l.cfg.APIKey != "" {
		httpreq.Header.Set("authorization", "Bearer "+l.cfg.APIKey)
	}

	ctx.Logger().Debugf("calling model %s for task %s", l.cfg.Model, req.Task)
	resp, err := l.httpcli.Do(httpreq.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	var res completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, errors.Wrapf(err, "cannot decode response with status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if res.Error != nil {
			msg = res.Error.Message
		}
		return nil, errors.Errorf("model call failed with status %d: %s", resp.StatusCode, msg)
	}
	if len(res.Choices) == 0 {
		return nil, errors.New("model returned no choice")
	}
	choice := res.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, errors.Errorf("model refused: %s", choice.Message.Refusal)
	}
	if choice.FinishReason == "length" {
		return nil, errors.New("model output truncated")
	}
	return choice.Message.Content, nil
}

func (l *llm) request(req executor.Request) (completionRequest, error) {
	format := map[string]interface{}{"type": "json_object"}
	if req.Schema != nil && req.Strict {
		format = map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   schemaName(req.Task),
				"schema": req.Schema.JSONSchema(),
				"strict": true,
			},
		}
	}

	system := req.Instruction
	if req.Schema != nil && !req.Strict {
		b, err := json.Marshal(req.Schema)
		if err != nil {
			return completionRequest{}, errors.Wrapf(err, "cannot marshal schema of task %s", req.Task)
		}
		system = fmt.Sprintf("%s\n\nAnswer with a JSON document following this JSON schema:\n%s", req.Instruction, b)
	}
	return completionRequest{
		Model: l.cfg.Model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Document},
		},
		Temperature:    l.cfg.Temperature,
		ResponseFormat: format,
	}, nil
}

// schemaName returns a name accepted as structured output schema name.
func schemaName(task string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, task)
	if name == "" {
		return "output"
	}
	return name
}
