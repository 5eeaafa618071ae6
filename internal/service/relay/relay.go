package relay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"relaychat/internal/models"
)

// Completion parameters sent with every request.
const (
	Temperature float32 = 0.7
	MaxTokens           = 200
	TopP        float32 = 1
)

const defaultTimeout = 30 * time.Second

// Transcriber converts the audio file at path into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Options configures a Service.
type Options struct {
	Model            model.BaseChatModel
	Transcriber      Transcriber
	ChatInstruction  string
	AudioInstruction string
	TempDir          string
	Timeout          time.Duration
}

// Service relays conversations and voice notes to the model provider.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	model            model.BaseChatModel
	transcriber      Transcriber
	chatInstruction  string
	audioInstruction string
	tempDir          string
	timeout          time.Duration
}

// AudioResult is the outcome of SubmitAudio. Transcript is set as soon as
// transcription succeeds, even when the completion afterwards fails.
type AudioResult struct {
	Transcript string
	Reply      string
}

func NewService(opts Options) (*Service, error) {
	if opts.Model == nil {
		return nil, errors.New("chat model required")
	}
	if opts.Transcriber == nil {
		return nil, errors.New("transcriber required")
	}
	if strings.TrimSpace(opts.ChatInstruction) == "" || strings.TrimSpace(opts.AudioInstruction) == "" {
		return nil, errors.New("system instructions required")
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Service{
		model:            opts.Model,
		transcriber:      opts.Transcriber,
		chatInstruction:  opts.ChatInstruction,
		audioInstruction: opts.AudioInstruction,
		tempDir:          opts.TempDir,
		timeout:          opts.Timeout,
	}, nil
}

// SubmitChat sends the history behind the chat instruction and returns the
// trimmed reply.
func (s *Service) SubmitChat(ctx context.Context, history []models.Message) (string, error) {
	if len(history) == 0 {
		return "", ErrHistoryRequired
	}
	for i, msg := range history {
		if !msg.Role.Valid() {
			return "", fmt.Errorf("%w %q at index %d", ErrInvalidRole, msg.Role, i)
		}
	}
	return s.complete(ctx, s.chatInstruction, history)
}

func (s *Service) complete(ctx context.Context, instruction string, history []models.Message) (string, error) {
	messages := buildMessages(instruction, history)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	resp, err := s.model.Generate(callCtx, messages,
		model.WithTemperature(Temperature),
		model.WithMaxTokens(MaxTokens),
		model.WithTopP(TopP),
	)
	if err != nil {
		return "", fmt.Errorf("%w: completion: %w", ErrUpstream, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: completion returned no message", ErrUpstream)
	}
	return strings.TrimSpace(resp.Content), nil
}

// buildMessages puts the instruction first and keeps history order as is.
func buildMessages(instruction string, history []models.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(instruction))
	for _, msg := range history {
		messages = append(messages, &schema.Message{
			Role:    toSchemaRole(msg.Role),
			Content: msg.Content,
		})
	}
	return messages
}

func toSchemaRole(role models.Role) schema.RoleType {
	switch role {
	case models.RoleAssistant:
		return schema.Assistant
	case models.RoleSystem:
		return schema.System
	default:
		return schema.User
	}
}
