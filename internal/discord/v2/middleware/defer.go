package middleware

import (
	"log"
	"time"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
)

// DeferConfig configures the defer middleware
type DeferConfig struct {
	// DeferAfter acknowledges the interaction if the handler is still running
	// after this long. Discord drops interactions not answered within 3s.
	DeferAfter time.Duration

	// Ephemeral makes deferred command replies ephemeral
	Ephemeral bool
}

// DefaultDeferConfig returns a sensible default configuration
func DefaultDeferConfig() *DeferConfig {
	return &DeferConfig{
		DeferAfter: 2 * time.Second,
		Ephemeral:  true,
	}
}

type handlerResponse struct {
	result    *core.HandlerResult
	err       error
	recovered interface{}
}

// DeferMiddleware defers slow handlers so a lagging session store does not
// time the interaction out. Component interactions defer an update of their
// message, so the page is still edited in place.
func DeferMiddleware(config *DeferConfig) core.Middleware {
	if config == nil {
		config = DefaultDeferConfig()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			responder := core.GetResponder(ctx)
			if responder == nil || config.DeferAfter <= 0 {
				return next.Handle(ctx)
			}

			responseChan := make(chan handlerResponse, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						responseChan <- handlerResponse{recovered: r}
					}
				}()
				result, err := next.Handle(ctx)
				responseChan <- handlerResponse{result: result, err: err}
			}()

			timer := time.NewTimer(config.DeferAfter)
			defer timer.Stop()

			var resp handlerResponse
			select {
			case resp = <-responseChan:
			case <-timer.C:
				if err := responder.Defer(config.Ephemeral); err != nil {
					log.Printf("[Discord] Failed to defer interaction after %v: %v", config.DeferAfter, err)
				}
				resp = <-responseChan
				if resp.result != nil {
					resp.result.Deferred = true
				}
			}

			// Re-raise on the caller's goroutine so RecoveryMiddleware sees it
			if resp.recovered != nil {
				panic(resp.recovered)
			}
			return resp.result, resp.err
		})
	}
}
