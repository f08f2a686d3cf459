package middleware

import (
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
)

const (
	DefaultUserMessage     = "An error occurred while processing your request."
	UnavailableUserMessage = "The codex is temporarily unavailable. Please try again shortly."
	PanicUserMessage       = "An unexpected error occurred. Please try again later."
)

// ErrorConfig configures error handling behavior
type ErrorConfig struct {
	// LogErrors controls whether errors are logged
	LogErrors bool

	// DefaultUserMessage is shown when no user-friendly message exists
	DefaultUserMessage string

	// ErrorLogger allows custom logging
	ErrorLogger ErrorLogger
}

// ErrorLogger logs errors
type ErrorLogger func(ctx *core.InteractionContext, err error)

// DefaultErrorConfig returns sensible defaults
func DefaultErrorConfig() *ErrorConfig {
	return &ErrorConfig{
		LogErrors:          true,
		DefaultUserMessage: DefaultUserMessage,
		ErrorLogger:        defaultErrorLogger,
	}
}

// ErrorMiddleware turns handler errors into ephemeral responses
func ErrorMiddleware(config *ErrorConfig) core.Middleware {
	if config == nil {
		config = DefaultErrorConfig()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			result, err := next.Handle(ctx)
			if err == nil {
				return result, nil
			}

			handlerErr := asHandlerError(err, config.DefaultUserMessage)

			if config.LogErrors && config.ErrorLogger != nil {
				config.ErrorLogger(ctx, handlerErr)
			}

			message := handlerErr.UserMessage
			if !handlerErr.ShowToUser || message == "" {
				message = config.DefaultUserMessage
			}

			return &core.HandlerResult{
				Response: core.NewEphemeralResponse(message),
				Context: map[string]interface{}{
					"error": err,
				},
			}, nil
		})
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (result *core.HandlerResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Discord] Panic recovered in handler: %v", r)

					result = &core.HandlerResult{
						Response: core.NewEphemeralResponse(PanicUserMessage),
						Context: map[string]interface{}{
							"error": fmt.Errorf("panic: %v", r),
						},
					}
					err = nil
				}
			}()

			return next.Handle(ctx)
		})
	}
}

// asHandlerError categorizes err. Handler errors keep their own message,
// storage outages get a retry hint and everything else is internal.
func asHandlerError(err error, fallback string) *core.HandlerError {
	var handlerErr *core.HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr
	}

	if apperr.GetCode(err) == apperr.CodeUnavailable {
		return core.NewHandlerError(err, UnavailableUserMessage, core.ErrorCodeUnavailable)
	}

	return core.NewHandlerError(err, fallback, core.ErrorCodeInternal)
}

func defaultErrorLogger(ctx *core.InteractionContext, err error) {
	logCtx := map[string]interface{}{
		"user_id":    ctx.UserID,
		"guild_id":   ctx.GuildID,
		"channel_id": ctx.ChannelID,
	}
	var handlerErr *core.HandlerError
	if errors.As(err, &handlerErr) {
		logCtx["code"] = handlerErr.Code
	}
	if id := core.GetRequestID(ctx); id != "" {
		logCtx["request_id"] = id
	}

	if ctx.IsCommand() {
		logCtx["command"] = ctx.GetCommandName()
	} else if ctx.IsComponent() {
		if customID, parseErr := core.ParseCustomID(ctx.GetCustomID()); parseErr == nil {
			logCtx["domain"] = customID.Domain
			logCtx["action"] = customID.Action
		}
	}
	if meta := apperr.GetMeta(err); len(meta) > 0 {
		logCtx["meta"] = meta
	}

	log.Printf("[Discord] Handler error: %v, context: %+v", err, logCtx)
}
