package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"

	"relaychat/internal/config"
)

func TestNewChatModelRejectsUnknownProvider(t *testing.T) {
	cfg := &config.Config{
		ChatProvider: "mistral",
		Providers: map[string]config.ProviderConfig{
			config.ProviderOpenAI: {APIKey: "sk-test", Model: "gpt-4o"},
		},
	}
	if _, err := NewChatModel(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewChatModelRequiresKey(t *testing.T) {
	cfg := &config.Config{
		ChatProvider: config.ProviderOpenAI,
		Providers: map[string]config.ProviderConfig{
			config.ProviderOpenAI: {Model: "gpt-4o"},
		},
	}
	if _, err := NewChatModel(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := NewChatModel(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestOpenAIChatModelGenerate(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hola"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 1, "total_tokens": 6}
		}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		ChatProvider: config.ProviderOpenAI,
		Providers: map[string]config.ProviderConfig{
			config.ProviderOpenAI: {APIKey: "sk-test", Model: "gpt-4o", BaseURL: srv.URL},
		},
	}
	chatModel, err := NewChatModel(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new chat model: %v", err)
	}
	resp, err := chatModel.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("instrucciones"),
		schema.UserMessage("Hola"),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "Hola" {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if got.Model != "gpt-4o" {
		t.Fatalf("unexpected model %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "Hola" {
		t.Fatalf("unexpected outbound messages %+v", got.Messages)
	}
}
