// cmd/sommelier-web is the HTTP entry point. It wires configuration,
// credentials, the generation gateway, the deterministic engine, and the
// profile store into the REST and WebSocket handlers.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verdant/sommelier/internal/catalog"
	"github.com/verdant/sommelier/internal/config"
	"github.com/verdant/sommelier/internal/credentials"
	"github.com/verdant/sommelier/internal/engine"
	"github.com/verdant/sommelier/internal/gateway"
	"github.com/verdant/sommelier/internal/sommelier"
	"github.com/verdant/sommelier/internal/storage"
	"github.com/verdant/sommelier/internal/storage/postgres"
	"github.com/verdant/sommelier/internal/storage/sqlite"
	"github.com/verdant/sommelier/web/handlers"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Credential store: env keys seed it, an optional JSON file layers on
	// top and reloads on change.
	creds := credentials.NewStore(map[string]string{
		credentials.ProviderOpenAI:    cfg.LLM.OpenAIAPIKey,
		credentials.ProviderAnthropic: cfg.LLM.AnthropicAPIKey,
	})
	if cfg.LLM.CredentialsFile != "" {
		if err := creds.WatchFile(cfg.LLM.CredentialsFile); err != nil {
			log.Fatalf("Failed to watch credentials file: %v", err)
		}
		defer creds.Stop()
	}

	// Generation gateway: anthropic first, openai as failover.
	timeout := time.Duration(cfg.LLM.RequestTimeout) * time.Second
	gw := gateway.New(
		gateway.NewAnthropicClient(gateway.AnthropicConfig{
			Key:     creds.KeyFunc(credentials.ProviderAnthropic),
			Timeout: timeout,
		}),
		gateway.NewOpenAIClient(gateway.OpenAIConfig{
			Key:     creds.KeyFunc(credentials.ProviderOpenAI),
			Timeout: timeout,
		}),
	)
	if !gw.Available() {
		log.Println("No provider keys configured; serving deterministic replies only")
	}

	// Deterministic engine over the embedded catalog.
	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load strain catalog: %v", err)
	}
	eng := engine.New(cat)

	som, err := sommelier.New(gw, eng)
	if err != nil {
		log.Fatalf("Failed to create orchestrator: %v", err)
	}

	// Profile store
	store, err := openProfileStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize profile storage: %v", err)
	}
	defer store.Close()

	// Wire handlers
	api := handlers.NewAPIHandlers(som, cfg)
	api.SetProfileStore(store)
	api.SetCredentialStore(creds)
	api.SetGateway(gw)

	mux := http.NewServeMux()
	api.Register(mux)

	allowedOrigins := []string{
		fmt.Sprintf("localhost:%d", cfg.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
	}
	mux.Handle("/ws/chat", handlers.NewChatSocket(som, allowedOrigins))

	limiter := handlers.NewRateLimiter(50, 100)
	var handler http.Handler = mux
	handler = handlers.RateLimitMiddleware(handler, limiter)
	handler = handlers.RequireAuth(handler, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * timeout, // generation calls dominate response time
	}

	go func() {
		log.Printf("Sommelier API running at http://%s (catalog: %d strains)", addr, cat.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// openProfileStore picks the storage backend from configuration.
func openProfileStore(cfg *config.Config) (storage.ProfileStore, error) {
	switch cfg.Storage.StorageEngine {
	case "postgres":
		return postgres.NewProfileStore(cfg.Storage.PostgresDSN)
	case "sqlite", "":
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory %q: %w", cfg.Storage.DataPath, err)
		}
		return sqlite.NewProfileStore(cfg.Storage.DataPath + "/sommelier.db")
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.StorageEngine)
	}
}
