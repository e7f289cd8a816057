package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/fundmesh/core"
)

// Config is the full runtime configuration of a fundmesh process.
type Config struct {
	App    AppConfig
	Agents AgentsConfig
	Memory MemoryConfig
	Models ModelsConfig
	Server ServerConfig
}

// AppConfig carries process-wide settings.
type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"fundmesh"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// AgentsConfig maps each advisory stage onto the base URL of the agent
// serving it. Empty values fall back to the deployment info file.
type AgentsConfig struct {
	FinancialAnalystURL   string `envconfig:"FINANCIAL_ANALYST_URL"`
	PortfolioArchitectURL string `envconfig:"PORTFOLIO_ARCHITECT_URL"`
	RiskAnalystURL        string `envconfig:"RISK_ANALYST_URL"`
}

// Endpoint resolves the invocation URL for a stage. It fails when the stage
// is unknown or its endpoint was never configured.
func (c AgentsConfig) Endpoint(stage core.Stage) (string, error) {
	var url string

	switch stage {
	case core.StageFinancial:
		url = c.FinancialAnalystURL
	case core.StagePortfolio:
		url = c.PortfolioArchitectURL
	case core.StageRisk:
		url = c.RiskAnalystURL
	default:
		return "", fmt.Errorf("unknown stage %q", stage)
	}

	if url == "" {
		return "", fmt.Errorf("no endpoint configured for stage %q", stage)
	}

	return url, nil
}

// MemoryConfig addresses the session memory service. An empty MemoryID
// disables memory writes.
type MemoryConfig struct {
	MemoryID string `envconfig:"MEMORY_ID"`
	ActorID  string `envconfig:"MEMORY_ACTOR_ID" default:"fund_user"`
	BaseURL  string `envconfig:"MEMORY_BASE_URL"`
}

// ModelsConfig carries the provider credentials and model names used by the
// local agent runtime.
type ModelsConfig struct {
	OpenAIKey      string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel    string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AnthropicKey   string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514"`
}

// ServerConfig carries the HTTP server settings.
type ServerConfig struct {
	Addr               string `envconfig:"SERVER_ADDR" default:":8080"`
	DeploymentInfoPath string `envconfig:"DEPLOYMENT_INFO_PATH" default:"deployment_info.json"`
}

// deploymentInfo mirrors the file written by the deploy tooling. Only the
// fields the runtime consumes are decoded.
type deploymentInfo struct {
	Agents   map[string]string `json:"agents"`
	MemoryID string            `json:"memory_id"`
}

// Load reads configuration from environment variables. It first tries to
// load a .env file (useful for local development), then fills unset agent
// endpoints and the memory ID from the deployment info file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.applyDeploymentInfo(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDeploymentInfo() error {
	data, err := os.ReadFile(c.Server.DeploymentInfoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read deployment info: %w", err)
	}

	var info deploymentInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return fmt.Errorf("failed to decode deployment info: %w", err)
	}

	if c.Agents.FinancialAnalystURL == "" {
		c.Agents.FinancialAnalystURL = info.Agents[string(core.StageFinancial)]
	}

	if c.Agents.PortfolioArchitectURL == "" {
		c.Agents.PortfolioArchitectURL = info.Agents[string(core.StagePortfolio)]
	}

	if c.Agents.RiskAnalystURL == "" {
		c.Agents.RiskAnalystURL = info.Agents[string(core.StageRisk)]
	}

	if c.Memory.MemoryID == "" {
		c.Memory.MemoryID = info.MemoryID
	}

	return nil
}

var (
	shared     *Config
	sharedErr  error
	sharedOnce sync.Once
)

// Shared returns the process-wide configuration, loading it on first use.
func Shared() (*Config, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = Load()
	})

	return shared, sharedErr
}
