package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBaseConfig() *Config {
	cfg := &Config{
		ServerAddr:  ":8080",
		DatabaseURL: "postgres://localhost:5432/chatbot",
		DBMaxConns:  25,
		DBMinConns:  5,
		TopK:        5,
		Provider:    ProviderOllama,
		LogLevel:    "info",
	}
	cfg.EmbeddingConnectorCfg.Url = "http://localhost:11434"
	cfg.LLMConnectorCfg.Url = "http://localhost:11434"
	cfg.TriggerConnectorCfg.Url = "http://localhost:8080"
	return cfg
}

func TestValidateConfigValid(t *testing.T) {
	require.NoError(t, validateConfig(validBaseConfig()))
}

func TestValidateConfigMissingServiceURLs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			"missing database url",
			func(c *Config) { c.DatabaseURL = "" },
			"DATABASE_URL",
		},
		{
			"missing embedding url",
			func(c *Config) { c.EmbeddingConnectorCfg.Url = "" },
			"EMBEDDING_SERVICE_URL",
		},
		{
			"missing llm url",
			func(c *Config) { c.LLMConnectorCfg.Url = "" },
			"LLM_SERVICE_URL",
		},
		{
			"missing trigger url",
			func(c *Config) { c.TriggerConnectorCfg.Url = "" },
			"TRIGGER_SERVICE_URL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateConfigMocksSkipServiceURLs(t *testing.T) {
	cfg := validBaseConfig()
	cfg.EnableMocks = true
	cfg.DatabaseURL = ""
	cfg.EmbeddingConnectorCfg.Url = ""
	cfg.LLMConnectorCfg.Url = ""
	cfg.TriggerConnectorCfg.Url = ""

	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfigOpenAIRequiresKey(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Provider = ProviderOpenAI

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	cfg.OpenAICfg.APIKey = "sk-test"
	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfigRanges(t *testing.T) {
	cfg := validBaseConfig()
	cfg.TopK = 0
	assert.Error(t, validateConfig(cfg))

	cfg = validBaseConfig()
	cfg.Provider = "chroma"
	assert.Error(t, validateConfig(cfg))

	cfg = validBaseConfig()
	cfg.DBMinConns = cfg.DBMaxConns + 1
	assert.Error(t, validateConfig(cfg))
}
