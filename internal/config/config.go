package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// An empty or missing model file is not an error: the service runs in
	// degraded mode and serves fallback plans.
	ModelPath string `env:"MODEL_PATH"`

	LlamaServerURL    string `env:"LLAMA_SERVER_URL" envDefault:"http://127.0.0.1:8081"`
	LlamaAPIKey       string `env:"LLAMA_API_KEY" envDefault:"sk-no-key-required"`
	LlamaProbeRetries int    `env:"LLAMA_PROBE_RETRIES" envDefault:"3"`

	LlmParallel int           `env:"LLM_PARALLEL" envDefault:"1"`
	LlmTimeout  time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	Addr        string `env:"ADDR" envDefault:":8000"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.LlamaProbeRetries < 0 {
		return fmt.Errorf("LLAMA_PROBE_RETRIES must be >= 0, got %d", c.LlamaProbeRetries)
	}
	if c.LlmParallel < 1 {
		return fmt.Errorf("LLM_PARALLEL must be >= 1, got %d", c.LlmParallel)
	}
	if c.LlmTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LlmTimeout)
	}
	return nil
}
