package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type contextKey string

const (
	// ResponderKey holds the interaction's InteractionResponder
	ResponderKey contextKey = "responder"

	// RequestIDKey holds the request ID assigned by middleware
	RequestIDKey contextKey = "request_id"
)

// Pipeline manages handler registration and execution
type Pipeline struct {
	handlers   []Handler
	middleware []Middleware

	newResponder ResponderFactory

	mu sync.RWMutex
}

// Middleware is a function that wraps a handler
type Middleware func(Handler) Handler

// ResponderFactory creates the responder for one interaction
type ResponderFactory func(s InteractionSession, i *discordgo.InteractionCreate) InteractionResponder

// NewPipeline creates a new handler pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{
		handlers:     make([]Handler, 0),
		middleware:   make([]Middleware, 0),
		newResponder: func(s InteractionSession, i *discordgo.InteractionCreate) InteractionResponder {
			return NewDiscordResponder(s, i)
		},
	}
}

// Register adds handlers to the pipeline
func (p *Pipeline) Register(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		wrapped := h
		for i := len(p.middleware) - 1; i >= 0; i-- {
			wrapped = p.middleware[i](wrapped)
		}
		p.handlers = append(p.handlers, wrapped)
	}
}

// Use adds middleware to the pipeline. Only handlers registered afterwards are wrapped.
func (p *Pipeline) Use(middleware ...Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.middleware = append(p.middleware, middleware...)
}

// SetResponderFactory replaces how responders are created
func (p *Pipeline) SetResponderFactory(factory ResponderFactory) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.newResponder = factory
}

// Execute runs the first handler that can handle the interaction. Errors
// that escape the middleware get a generic ephemeral reply.
func (p *Pipeline) Execute(ctx context.Context, s InteractionSession, i *discordgo.InteractionCreate) error {
	interactionCtx := NewInteractionContext(ctx, s, i)

	p.mu.RLock()
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	responder := p.newResponder(s, i)
	p.mu.RUnlock()

	interactionCtx.WithValue(ResponderKey, responder)

	for _, handler := range handlers {
		if !handler.CanHandle(interactionCtx) {
			continue
		}

		result, err := handler.Handle(interactionCtx)
		if err != nil {
			result = defaultErrorHandler(interactionCtx, err)
		}

		if result != nil && result.Response != nil {
			if err := sendResponse(responder, result); err != nil {
				return fmt.Errorf("failed to send response: %w", err)
			}
		}

		return nil
	}

	if responder.HasResponded() {
		return nil
	}

	log.Printf("[Pipeline] No handler for interaction %s", describe(interactionCtx))
	return sendResponse(responder, &HandlerResult{
		Response: NewEphemeralResponse("I don't know how to handle that interaction."),
	})
}

func sendResponse(responder InteractionResponder, result *HandlerResult) error {
	if result.Deferred || responder.IsDeferred() {
		return responder.Edit(result.Response)
	}

	return responder.Respond(result.Response)
}

func defaultErrorHandler(ctx *InteractionContext, err error) *HandlerResult {
	log.Printf("[Pipeline] Unhandled error for interaction %s: %v", describe(ctx), err)

	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) && handlerErr.ShowToUser {
		return &HandlerResult{
			Response: NewEphemeralResponse(handlerErr.UserMessage),
		}
	}

	return &HandlerResult{
		Response: NewEphemeralResponse("An error occurred while processing your request."),
	}
}

// describe names the interaction for log lines
func describe(ctx *InteractionContext) string {
	switch {
	case ctx.IsCommand():
		return "/" + ctx.GetCommandName()
	case ctx.IsComponent():
		return ctx.GetCustomID()
	default:
		return "unknown"
	}
}

// GetResponder returns the responder stored by Execute, if any
func GetResponder(ctx *InteractionContext) InteractionResponder {
	if ctx.Context == nil {
		return nil
	}
	r, _ := ctx.Value(ResponderKey).(InteractionResponder)
	return r
}

// GetRequestID returns the request ID assigned by middleware, if any
func GetRequestID(ctx *InteractionContext) string {
	if ctx.Context == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
