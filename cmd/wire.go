package cmd

import (
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/fundmesh/agents"
	"github.com/hupe1980/fundmesh/client"
	"github.com/hupe1980/fundmesh/config"
	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
	"github.com/hupe1980/fundmesh/memory"
	"github.com/hupe1980/fundmesh/model"
	"github.com/hupe1980/fundmesh/model/anthropic"
	"github.com/hupe1980/fundmesh/model/openai"
	"github.com/hupe1980/fundmesh/runner"
)

// app bundles the wired runtime pieces the commands share.
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	invoker core.Invoker
	memory  memory.Service
	runner  *runner.Runner
}

// wireApp resolves configuration into a ready consultation runner. When
// agent endpoints are configured the stages run against remote agents over
// SSE; otherwise a local runtime serves them in-process.
func wireApp() (*app, error) {
	cfg, err := config.Shared()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLogLevel(cfg.App.LogLevel),
		Format:    "json",
		Output:    os.Stderr,
		Component: cfg.App.Name,
	})

	invoker, err := buildInvoker(cfg, logger.WithComponent("client"))
	if err != nil {
		return nil, err
	}

	var (
		memoryService memory.Service
		recorder      core.Recorder
	)

	if cfg.Memory.MemoryID != "" {
		if cfg.Memory.BaseURL != "" {
			memoryService = memory.NewHTTPService(cfg.Memory.BaseURL, func(o *memory.HTTPServiceOptions) {
				o.Logger = logger.WithComponent("memory")
			})
		} else {
			memoryService = memory.NewInMemoryService()
		}

		recorder = memory.NewRecorder(memoryService, cfg.Memory.MemoryID, func(o *memory.RecorderOptions) {
			o.ActorID = cfg.Memory.ActorID
			o.Logger = logger.WithComponent("memory")
		})
	}

	r := runner.New(invoker, func(o *runner.Options) {
		o.Recorder = recorder
		o.Logger = logger.WithComponent("runner")
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		invoker: invoker,
		memory:  memoryService,
		runner:  r,
	}, nil
}

// localSummarizerModel picks a model for background session summarization.
// Without provider credentials there is nothing to summarize with.
func localSummarizerModel(a *app) (model.Model, bool) {
	switch {
	case a.cfg.Models.AnthropicKey != "":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(a.cfg.Models.AnthropicModel)
			o.APIKey = a.cfg.Models.AnthropicKey
		}), true
	case a.cfg.Models.OpenAIKey != "":
		return openai.NewModel(func(o *openai.Options) {
			o.Model = a.cfg.Models.OpenAIModel
		}), true
	}

	return nil, false
}

func buildInvoker(cfg *config.Config, logger logging.Logger) (core.Invoker, error) {
	if _, err := cfg.Agents.Endpoint(core.StageFinancial); err == nil {
		logger.Info("using remote agent endpoints")

		return client.New(cfg.Agents, func(o *client.Options) {
			o.Logger = logger
		}), nil
	}

	logger.Info("no agent endpoints configured, serving agents in-process")

	openaiModel := openai.NewModel(func(o *openai.Options) {
		o.Model = cfg.Models.OpenAIModel
	})

	anthropicModel := anthropic.NewModel(func(o *anthropic.Options) {
		o.Model = anthropicsdk.Model(cfg.Models.AnthropicModel)
		o.APIKey = cfg.Models.AnthropicKey
	})

	return agents.NewRuntime(
		agents.NewFinancialAnalyst(openaiModel),
		agents.NewPortfolioArchitect(anthropicModel),
		agents.NewRiskAnalyst(anthropicModel),
	)
}
