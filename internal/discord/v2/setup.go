package v2

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/middleware"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/routers"
	"github.com/KirkDiggler/shinobi-codex/internal/services"
	"github.com/KirkDiggler/shinobi-codex/internal/uuid"
)

// Config tunes the interaction pipeline
type Config struct {
	RateLimitPerMinute int

	// DeferAfter acknowledges slow interactions; zero disables deferring
	DeferAfter time.Duration

	// RequestIDs defaults to random UUIDs
	RequestIDs uuid.Generator
}

// SetupPipeline builds the pipeline with global middleware and all routers
func SetupPipeline(provider *services.Provider, cfg *Config) (*core.Pipeline, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	pipeline := core.NewPipeline()

	// Middleware must be added before routers register
	pipeline.Use(
		middleware.RecoveryMiddleware(),
		middleware.RequestIDMiddleware(cfg.RequestIDs),
		middleware.LoggingMiddleware(nil),
		middleware.ErrorMiddleware(nil),
		middleware.DeferMiddleware(&middleware.DeferConfig{
			DeferAfter: cfg.DeferAfter,
			Ephemeral:  true,
		}),
	)

	if _, err := routers.NewCodexRouter(pipeline, provider, &routers.CodexRouterConfig{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}); err != nil {
		return nil, err
	}

	return pipeline, nil
}

// InteractionHandler adapts the pipeline to a discordgo event handler
func InteractionHandler(pipeline *core.Pipeline) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if err := pipeline.Execute(context.Background(), s, i); err != nil {
			log.Printf("[Pipeline] Interaction error: %v", err)
		}
	}
}
