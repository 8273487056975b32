package llm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mythicalprogrammer/exRPG/internal/config"
	"github.com/mythicalprogrammer/exRPG/internal/llm/provider"
)

// LoadProvider prepares the model once at startup. Any problem (no path,
// missing file, server down) is logged and yields nil, which puts the
// service in degraded mode rather than failing startup.
func LoadProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) provider.Provider {
	if strings.TrimSpace(cfg.ModelPath) == "" {
		logger.Info("MODEL_PATH not set; serving fallback plans")
		return nil
	}

	p, err := provider.NewLlamaCppProvider(
		provider.WithModelPath(cfg.ModelPath),
		provider.WithBaseURL(cfg.LlamaServerURL),
		provider.WithAPIKey(cfg.LlamaAPIKey),
	)
	if err != nil {
		logger.Info("llama provider misconfigured; serving fallback plans", "error", err)
		return nil
	}
	if err := p.Validate(); err != nil {
		logger.Info("model file unavailable; serving fallback plans", "model_path", cfg.ModelPath, "error", err)
		return nil
	}
	if err := p.Ping(ctx, cfg.LlamaProbeRetries, logger); err != nil {
		logger.Info("llama server unreachable; serving fallback plans", "url", cfg.LlamaServerURL, "error", err)
		p.Close() //nolint:errcheck
		return nil
	}

	logger.Info("model loaded", "model", p.Model(), "url", cfg.LlamaServerURL)
	return p
}
