package ai

import (
	"context"
	"errors"
	"fmt"

	"relaychat/internal/config"

	goopenai "github.com/sashabaranov/go-openai"
)

// Transcriber turns an audio file into text through the OpenAI
// transcription endpoint.
type Transcriber struct {
	client *goopenai.Client
	model  string
}

func NewTranscriber(cfg config.ProviderConfig) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("transcription api key required")
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = goopenai.Whisper1
	}
	return &Transcriber{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  modelName,
	}, nil
}

// Transcribe uploads the file at path and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    t.model,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("create transcription: %w", err)
	}
	return resp.Text, nil
}
