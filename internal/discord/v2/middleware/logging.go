package middleware

import (
	"log"
	"time"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	"github.com/KirkDiggler/shinobi-codex/internal/uuid"
)

// LogConfig configures logging behavior
type LogConfig struct {
	// LogRequests logs incoming interactions
	LogRequests bool

	// LogDuration logs handler execution time
	LogDuration bool

	// LogErrors logs errors (if not using ErrorMiddleware)
	LogErrors bool

	// Logger allows custom logging implementation
	Logger Logger
}

// Logger is a custom logging interface
type Logger interface {
	LogRequest(ctx *core.InteractionContext)
	LogDuration(ctx *core.InteractionContext, duration time.Duration)
	LogError(ctx *core.InteractionContext, err error)
}

// DefaultLogConfig returns sensible defaults
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		LogRequests: true,
		LogDuration: true,
		LogErrors:   true,
		Logger:      &defaultLogger{},
	}
}

// LoggingMiddleware provides request/response logging
func LoggingMiddleware(config *LogConfig) core.Middleware {
	if config == nil {
		config = DefaultLogConfig()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if config.Logger == nil {
				return next.Handle(ctx)
			}

			if config.LogRequests {
				config.Logger.LogRequest(ctx)
			}

			start := time.Now()
			result, err := next.Handle(ctx)
			duration := time.Since(start)

			if err != nil && config.LogErrors {
				config.Logger.LogError(ctx, err)
			}
			if config.LogDuration {
				config.Logger.LogDuration(ctx, duration)
			}

			return result, err
		})
	}
}

// RequestIDMiddleware tags each interaction with a request ID
func RequestIDMiddleware(gen uuid.Generator) core.Middleware {
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if core.GetRequestID(ctx) == "" {
				ctx.WithValue(core.RequestIDKey, gen.New())
			}
			return next.Handle(ctx)
		})
	}
}

// defaultLogger provides basic stdout logging
type defaultLogger struct{}

func (l *defaultLogger) LogRequest(ctx *core.InteractionContext) {
	log.Printf("[Discord] [%s] %s, User: %s, Guild: %s, Channel: %s",
		core.GetRequestID(ctx),
		interactionName(ctx),
		ctx.UserID,
		ctx.GuildID,
		ctx.ChannelID,
	)
}

func (l *defaultLogger) LogDuration(ctx *core.InteractionContext, duration time.Duration) {
	log.Printf("[Discord] [%s] %s completed in %v", core.GetRequestID(ctx), interactionName(ctx), duration)
}

func (l *defaultLogger) LogError(ctx *core.InteractionContext, err error) {
	log.Printf("[Discord] [%s] Error in %s: %v", core.GetRequestID(ctx), interactionName(ctx), err)
}

func interactionName(ctx *core.InteractionContext) string {
	if ctx.IsCommand() {
		name := "Command: " + ctx.GetCommandName()
		if sub := ctx.GetSubcommand(); sub != "" {
			name += "/" + sub
		}
		return name
	}
	if ctx.IsComponent() {
		if parsed, err := core.ParseCustomID(ctx.GetCustomID()); err == nil {
			return "Component: " + parsed.Domain + ":" + parsed.Action
		}
		return "Component: " + ctx.GetCustomID()
	}
	return "unknown"
}
