package stylegen

import (
	"context"
	"log/slog"
	"os"

	"github.com/pthm-cable/solaris/config"
)

// FromConfig builds the service described by cfg. Without an API key in the
// configured environment variable every request is answered with the
// fallback.
func FromConfig(ctx context.Context, cfg *config.Config) *Service {
	fallback := Style{Config: cfg.Fallback.Config, Reasoning: cfg.Fallback.Reasoning}

	var gen Generator
	key := os.Getenv(cfg.Stylegen.APIKeyEnv)
	gemini, err := NewGeminiGenerator(ctx, key, cfg.Stylegen.Model)
	if err != nil {
		slog.Warn("style generation disabled, using fallback", "env", cfg.Stylegen.APIKeyEnv, "error", err)
	} else {
		gen = gemini
	}

	return NewService(gen, fallback, cfg.Ranges, cfg.Stylegen.Timeout)
}
