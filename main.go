package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relaychat/internal/api"
	"relaychat/internal/config"
	"relaychat/internal/prompt"
	"relaychat/internal/redis"
	"relaychat/internal/service/ai"
	"relaychat/internal/service/relay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chatInstruction, err := prompt.Lookup(cfg.BasicConfig.ChatInstruction)
	if err != nil {
		log.Fatalf("chat instruction: %v", err)
	}
	audioInstruction, err := prompt.Lookup(cfg.BasicConfig.AudioInstruction)
	if err != nil {
		log.Fatalf("audio instruction: %v", err)
	}

	chatModel, err := ai.NewChatModel(ctx, cfg)
	if err != nil {
		log.Fatalf("init chat model: %v", err)
	}
	transcriber, err := ai.NewTranscriber(cfg.Transcription)
	if err != nil {
		log.Fatalf("init transcriber: %v", err)
	}
	log.Printf("provider: %s model: %s", cfg.ChatProvider, cfg.Provider().Model)

	if err := os.MkdirAll(cfg.BasicConfig.TempDir, 0o700); err != nil {
		log.Fatalf("create temp dir: %v", err)
	}
	relayService, err := relay.NewService(relay.Options{
		Model:            chatModel,
		Transcriber:      transcriber,
		ChatInstruction:  chatInstruction,
		AudioInstruction: audioInstruction,
		TempDir:          cfg.BasicConfig.TempDir,
		Timeout:          cfg.BasicConfig.UpstreamTimeout,
	})
	if err != nil {
		log.Fatalf("init relay service: %v", err)
	}
	relayService.StartTempFileCleaner(ctx, cfg.BasicConfig.TempCleanInterval, cfg.BasicConfig.TempFileTTL)

	var limiter api.Limiter
	if cfg.BasicConfig.RateLimitPerMinute > 0 && cfg.Redis.Addr != "" {
		rdb, err := redis.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("create redis client: %v", err)
		}
		defer rdb.Close()
		limiter = api.NewRedisLimiter(rdb, cfg.BasicConfig.RateLimitPerMinute, time.Minute)
		log.Printf("rate limit: %d requests/min per client", cfg.BasicConfig.RateLimitPerMinute)
	} else if cfg.BasicConfig.RateLimitPerMinute > 0 {
		log.Printf("RATE_LIMIT_PER_MINUTE set without REDIS_ADDR, rate limiting disabled")
	}

	router, err := api.NewRouter(cfg.BasicConfig.TrustedProxies)
	if err != nil {
		log.Fatalf("init router: %v", err)
	}
	api.NewHandler(relayService, cfg.BasicConfig.MaxUploadBytes, limiter).RegisterRoutes(router)

	server := &http.Server{
		Addr:              cfg.BasicConfig.ServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("shutting down...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped: %v", err)
	}
}
