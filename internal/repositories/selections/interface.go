package selections

//go:generate mockgen -destination=mock/mock.go -package=mockselections -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
)

// Repository stores one selection cell per interactive session
type Repository interface {
	// Get returns the session or a not found error
	Get(ctx context.Context, sessionID string) (*codex.Session, error)

	// Save creates or overwrites the session and refreshes its expiry
	Save(ctx context.Context, session *codex.Session) error

	// Delete drops the session; deleting a missing session is not an error
	Delete(ctx context.Context, sessionID string) error

	// List returns every live session
	List(ctx context.Context) ([]*codex.Session, error)
}
