package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fundmesh/core"
)

func TestAgentsConfigEndpoint(t *testing.T) {
	agents := AgentsConfig{
		FinancialAnalystURL:   "http://financial:8080/invocations",
		PortfolioArchitectURL: "http://portfolio:8080/invocations",
	}

	url, err := agents.Endpoint(core.StageFinancial)
	require.NoError(t, err)
	assert.Equal(t, "http://financial:8080/invocations", url)

	url, err = agents.Endpoint(core.StagePortfolio)
	require.NoError(t, err)
	assert.Equal(t, "http://portfolio:8080/invocations", url)

	_, err = agents.Endpoint(core.StageRisk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no endpoint configured")

	_, err = agents.Endpoint(core.Stage("chaos"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stage")
}

func TestLoad(t *testing.T) {
	t.Run("env vars win over deployment info", func(t *testing.T) {
		dir := t.TempDir()
		writeDeploymentInfo(t, dir, `{
			"agents": {
				"financial": "http://file-financial/invocations",
				"portfolio": "http://file-portfolio/invocations",
				"risk": "http://file-risk/invocations"
			},
			"memory_id": "mem-from-file"
		}`)

		t.Setenv("DEPLOYMENT_INFO_PATH", filepath.Join(dir, "deployment_info.json"))
		t.Setenv("FINANCIAL_ANALYST_URL", "http://env-financial/invocations")
		t.Setenv("MEMORY_ID", "mem-from-env")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "http://env-financial/invocations", cfg.Agents.FinancialAnalystURL)
		assert.Equal(t, "http://file-portfolio/invocations", cfg.Agents.PortfolioArchitectURL)
		assert.Equal(t, "http://file-risk/invocations", cfg.Agents.RiskAnalystURL)
		assert.Equal(t, "mem-from-env", cfg.Memory.MemoryID)
	})

	t.Run("missing deployment info file is not an error", func(t *testing.T) {
		t.Setenv("DEPLOYMENT_INFO_PATH", filepath.Join(t.TempDir(), "absent.json"))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "fundmesh", cfg.App.Name)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "fund_user", cfg.Memory.ActorID)
	})

	t.Run("malformed deployment info fails", func(t *testing.T) {
		dir := t.TempDir()
		writeDeploymentInfo(t, dir, `{not json`)

		t.Setenv("DEPLOYMENT_INFO_PATH", filepath.Join(dir, "deployment_info.json"))

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode deployment info")
	})
}

func writeDeploymentInfo(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deployment_info.json"), []byte(content), 0o600))
}
