package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported completion providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig   BasicConfig
	ChatProvider  string
	Providers     map[string]ProviderConfig
	Transcription ProviderConfig
	Redis         RedisConfig
}

type ProviderConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

type BasicConfig struct {
	Port               string
	TempDir            string
	TempFileTTL        time.Duration
	TempCleanInterval  time.Duration
	UpstreamTimeout    time.Duration
	MaxUploadBytes     int64
	RateLimitPerMinute int
	ChatInstruction    string
	AudioInstruction   string

	// TrustedProxies lists the peers whose X-Forwarded-For is believed.
	// Empty means the client IP is always the connection's remote address.
	TrustedProxies []string
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// ServerAddress returns the listen address built from the port.
func (b BasicConfig) ServerAddress() string {
	return ":" + b.Port
}

// Provider returns the settings of the selected completion provider.
func (c *Config) Provider() ProviderConfig {
	return c.Providers[c.ChatProvider]
}

// Load reads configuration from the process environment. A .env file in the
// working directory is honored when present, without overriding variables
// that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return nil, errors.New("OPENAI_API_KEY must be set")
	}

	cfg := &Config{
		ChatProvider: strings.ToLower(envOr("LLM_PROVIDER", ProviderOpenAI)),
		Providers: map[string]ProviderConfig{
			ProviderOpenAI: {
				BaseURL: os.Getenv("OPENAI_BASE_URL"),
				Model:   envOr("OPENAI_MODEL", "gpt-4o"),
				APIKey:  openaiKey,
			},
			ProviderClaude: {
				BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
				Model:   envOr("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
				APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			},
			ProviderGemini: {
				Model:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),
				APIKey: os.Getenv("GEMINI_API_KEY"),
			},
		},
		Transcription: ProviderConfig{
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   envOr("TRANSCRIPTION_MODEL", "whisper-1"),
			APIKey:  openaiKey,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Username: os.Getenv("REDIS_USERNAME"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		BasicConfig: BasicConfig{
			Port:             envOr("PORT", "5000"),
			TempDir:          envOr("TEMP_DIR", os.TempDir()),
			ChatInstruction:  envOr("CHAT_INSTRUCTION", "contencion"),
			AudioInstruction: envOr("AUDIO_INSTRUCTION", "contencion-voz"),
			TrustedProxies:   envList("TRUSTED_PROXIES"),
		},
	}

	provCfg, ok := cfg.Providers[cfg.ChatProvider]
	if !ok {
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s", cfg.ChatProvider)
	}
	if provCfg.APIKey == "" {
		return nil, fmt.Errorf("api key for provider %s must be set", cfg.ChatProvider)
	}

	port, err := envInt("PORT", 5000)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", port)
	}
	if cfg.Redis.DB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.BasicConfig.RateLimitPerMinute, err = envInt("RATE_LIMIT_PER_MINUTE", 0); err != nil {
		return nil, err
	}
	maxMB, err := envInt("MAX_UPLOAD_MB", 25)
	if err != nil {
		return nil, err
	}
	if maxMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", maxMB)
	}
	cfg.BasicConfig.MaxUploadBytes = int64(maxMB) << 20

	if cfg.BasicConfig.UpstreamTimeout, err = envDuration("UPSTREAM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.BasicConfig.TempFileTTL, err = envDuration("TEMP_FILE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.BasicConfig.TempCleanInterval, err = envDuration("TEMP_CLEAN_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
