package embedding

import (
	"fmt"
	"time"

	"docindex/internal/config"
	"docindex/internal/embedding/ollama"
	"docindex/internal/embedding/openai"
)

// NewProvider builds the external provider selected by cfg. Type "none"
// yields a nil provider and a nil error.
func NewProvider(cfg config.EmbedderConfig) (Provider, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "openai":
		oc := config.OpenAIEmbedderConfig{}
		if cfg.OpenAI != nil {
			oc = *cfg.OpenAI
		}
		c, err := openai.NewClient(openai.Config{
			BaseURL:           oc.BaseURL,
			APIKeyEnv:         oc.APIKeyEnv,
			Model:             oc.Model,
			Timeout:           time.Duration(oc.TimeoutSecs) * time.Second,
			MaxRetries:        oc.MaxRetries,
			RequestsPerSecond: oc.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case "ollama":
		lc := config.OllamaEmbedderConfig{}
		if cfg.Ollama != nil {
			lc = *cfg.Ollama
		}
		c, err := ollama.NewClient(ollama.Config{
			BaseURL:    lc.BaseURL,
			Model:      lc.Model,
			Timeout:    time.Duration(lc.TimeoutSecs) * time.Second,
			MaxRetries: lc.MaxRetries,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}
