package selection

import (
	"context"
	"log"

	"github.com/KirkDiggler/shinobi-codex/internal/catalog"
	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
	"github.com/KirkDiggler/shinobi-codex/internal/repositories/selections"
	"github.com/KirkDiggler/shinobi-codex/internal/selection"
	"github.com/KirkDiggler/shinobi-codex/internal/view"
)

// Service runs one render cycle per interaction: load the session's
// selection, apply the cycle's events, persist, and format the detail panel.
type Service interface {
	// Catalog returns the character catalog the service renders from
	Catalog() *catalog.Catalog

	// Current returns the session's selection; unknown sessions are Unselected
	Current(ctx context.Context, sessionID string) (selection.State, error)

	// View renders the detail panel without changing the selection
	View(ctx context.Context, sessionID string) (*view.Payload, selection.State, error)

	// Dispatch applies the events of one interaction cycle and renders the result
	Dispatch(ctx context.Context, sessionID string, events ...selection.Event) (*view.Payload, selection.State, error)

	// Reset discards the session so the next render starts Unselected
	Reset(ctx context.Context, sessionID string) error
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Catalog    *catalog.Catalog       // Required
	Repository selections.Repository // Required
}

type service struct {
	catalog    *catalog.Catalog
	repository selections.Repository
}

// NewService creates a new selection service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.Repository == nil {
		panic("repository is required")
	}

	return &service{
		catalog:    cfg.Catalog,
		repository: cfg.Repository,
	}
}

func (s *service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *service) Current(ctx context.Context, sessionID string) (selection.State, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return selection.Unselected(), err
	}
	return s.stateOf(sess), nil
}

func (s *service) View(ctx context.Context, sessionID string) (*view.Payload, selection.State, error) {
	state, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, state, err
	}

	payload, err := view.Render(s.catalog, state)
	if err != nil {
		return nil, state, err
	}

	return payload, state, nil
}

func (s *service) Dispatch(ctx context.Context, sessionID string, events ...selection.Event) (*view.Payload, selection.State, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, selection.Unselected(), err
	}
	isNew := sess == nil
	if isNew {
		sess = &codex.Session{ID: sessionID}
	}

	current := s.stateOf(sess)
	next, err := selection.ApplyCycle(s.catalog, current, events...)
	if err != nil {
		return nil, current, apperr.Wrapf(err, "failed to apply selection for session %s", sessionID)
	}

	if isNew || next != current {
		sess.Character = next.Name()
		if err := s.repository.Save(ctx, sess); err != nil {
			return nil, current, apperr.Wrapf(err, "failed to save session %s", sessionID)
		}
		log.Printf("[Codex] Session %s: %s -> %s", sessionID, current, next)
	}

	payload, err := view.Render(s.catalog, next)
	if err != nil {
		return nil, next, err
	}

	return payload, next, nil
}

func (s *service) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperr.InvalidArgumentf("session ID is required")
	}
	if err := s.repository.Delete(ctx, sessionID); err != nil {
		return apperr.Wrapf(err, "failed to reset session %s", sessionID)
	}
	return nil
}

// load returns nil without error when the session does not exist yet
func (s *service) load(ctx context.Context, sessionID string) (*codex.Session, error) {
	if sessionID == "" {
		return nil, apperr.InvalidArgumentf("session ID is required")
	}

	sess, err := s.repository.Get(ctx, sessionID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperr.Wrapf(err, "failed to load session %s", sessionID)
	}

	return sess, nil
}

// stateOf maps a stored session to a state. A stored name the catalog no
// longer knows (the seed changed between restarts) reads as Unselected.
func (s *service) stateOf(sess *codex.Session) selection.State {
	if sess == nil || sess.Character == "" {
		return selection.Unselected()
	}
	if !s.catalog.Has(sess.Character) {
		log.Printf("[Codex] Session %s holds unknown character %q, treating as unselected", sess.ID, sess.Character)
		return selection.Unselected()
	}
	return selection.Selected(sess.Character)
}
