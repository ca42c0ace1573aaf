// Package engine wires the configuration of the untangle binaries: executors, runner settings and the scheduler.
package engine

import (
	"untangle/pkg/demistifier"
	"untangle/pkg/executor"
	"untangle/pkg/executor/dummy"
	"untangle/pkg/executor/llm"
	"untangle/pkg/memory"
	"untangle/pkg/pipeline"
	"untangle/pkg/router"
	"untangle/pkg/scheduler"
	"untangle/pkg/store"
	"untangle/pkg/util/config"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
)

// ExecutorConfig selects the executor of the built-in pipelines.
type ExecutorConfig struct {
	// Kind is dummy or llm.
	Kind       string `json:"kind" env:"EXECUTOR_KIND"`
	llm.Config `json:",squash"`
}

// ServerConfig is the configuration of the HTTP server.
type ServerConfig struct {
	Port string `json:"port" env:"SERVER_PORT"`
}

// LogConfig is the configuration of the logger.
type LogConfig struct {
	Level string `json:"level" env:"LOG_LEVEL"`
}

// Config is the whole configuration.
type Config struct {
	Runner   pipeline.Config
	Executor ExecutorConfig
	Server   ServerConfig
	Log      LogConfig
}

// LoadConfig reads the config file, if any, and the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ReadInConfig(); err != nil {
		return cfg, err
	}
	for key, v := range map[string]interface{}{
		"runner":   &cfg.Runner,
		"executor": &cfg.Executor,
		"server":   &cfg.Server,
		"log":      &cfg.Log,
	} {
		if err := config.Unmarshal(key, v); err != nil {
			return cfg, errors.Wrapf(err, "cannot read %s configuration", key)
		}
	}
	cfg.setDefaults()
	if err := context.SetLevel(cfg.Log.Level); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Executor.Kind == "" {
		cfg.Executor.Kind = dummy.Kind
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Executors returns the available executors: the dummy executor answering with sample payloads,
// and the llm executor when it is configured.
func Executors(cfg ExecutorConfig) (executor.Registry, error) {
	payloads := demistifier.SamplePayloads()
	payloads[router.TaskName] = map[string]interface{}{"route": string(router.RouteDemistifier)}
	reg := executor.Registry{
		dummy.Kind: dummy.New(payloads),
	}
	if cfg.URI == "" && cfg.Kind != llm.Kind {
		return reg, nil
	}
	e, err := llm.New(cfg.Config)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create llm executor")
	}
	reg[llm.Kind] = e
	return reg, nil
}

// NewScheduler returns a scheduler recording runs into registry.
func NewScheduler(cfg Config, registry store.Registry, mem memory.Memory) (scheduler.Scheduler, error) {
	executors, err := Executors(cfg.Executor)
	if err != nil {
		return nil, err
	}
	return scheduler.NewScheduler(scheduler.Params{
		Executors: executors,
		Kind:      cfg.Executor.Kind,
		Registry:  registry,
		Memory:    mem,
		Options:   []pipeline.Option{pipeline.WithConfig(cfg.Runner)},
	})
}
