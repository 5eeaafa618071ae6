package ai

import (
	"context"
	"errors"
	"fmt"

	"relaychat/internal/config"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Anthropic requires max_tokens on every request; per-call options override it.
const claudeMaxTokens = 200

// NewChatModel builds the completion model of the configured provider.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	provCfg, ok := cfg.Providers[cfg.ChatProvider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", cfg.ChatProvider)
	}
	if provCfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s has no api key", cfg.ChatProvider)
	}

	var (
		chatModel model.ToolCallingChatModel
		err       error
	)
	switch cfg.ChatProvider {
	case config.ProviderOpenAI:
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case config.ProviderGemini:
		client, cerr := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  provCfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if cerr != nil {
			return nil, fmt.Errorf("new gemini client: %w", cerr)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case config.ProviderClaude:
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: claudeMaxTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.ChatProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", cfg.ChatProvider, err)
	}
	return chatModel, nil
}
