package routers

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/handlers"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/middleware"
	"github.com/KirkDiggler/shinobi-codex/internal/services"
	"github.com/KirkDiggler/shinobi-codex/internal/view"
)

const (
	// CodexDomain prefixes every codex component custom ID
	CodexDomain = "codex"

	// CharactersCommand opens the character page
	CharactersCommand = "characters"
)

// CodexRouterConfig configures the codex router
type CodexRouterConfig struct {
	// RateLimitPerMinute caps interactions per user; zero disables the limit
	RateLimitPerMinute int

	Page *view.Page // Optional
}

// CodexRouter handles the character page and its components
type CodexRouter struct {
	router  *core.Router
	handler *handlers.CodexHandler
}

// NewCodexRouter creates the router and registers it with the pipeline
func NewCodexRouter(pipeline *core.Pipeline, provider *services.Provider, cfg *CodexRouterConfig) (*CodexRouter, error) {
	if provider == nil || provider.SelectionService == nil {
		return nil, fmt.Errorf("selection service is required")
	}
	if cfg == nil {
		cfg = &CodexRouterConfig{}
	}

	router := core.NewRouter(CodexDomain, pipeline)

	handler, err := handlers.NewCodexHandler(&handlers.CodexHandlerConfig{
		Service:         provider.SelectionService,
		Page:            cfg.Page,
		CustomIDBuilder: router.GetCustomIDBuilder(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create codex handler: %w", err)
	}

	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.UserRateLimitMiddleware(cfg.RateLimitPerMinute, time.Minute))
	}

	cr := &CodexRouter{
		router:  router,
		handler: handler,
	}
	cr.registerRoutes()

	router.Register()

	return cr, nil
}

func (r *CodexRouter) registerRoutes() {
	r.router.CommandFunc(CharactersCommand, r.handler.HandleCommand)

	r.router.ComponentFunc(handlers.ActionSelect, r.handler.HandleSelect)
	r.router.ComponentFunc(handlers.ActionAbout, r.handler.HandleAbout)
}

// Commands returns the slash commands this router answers
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CharactersCommand,
			Description: "Browse Naruto characters and learn about their moves and weapons",
		},
	}
}
