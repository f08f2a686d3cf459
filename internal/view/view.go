package view

import (
	"strings"

	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
	"github.com/KirkDiggler/shinobi-codex/internal/selection"
)

const (
	// Separator joins moves and weapons for display
	Separator = ", "

	MovesLabel   = "Moves:"
	WeaponsLabel = "Weapons:"

	// PlaceholderMessage is shown while nothing is selected
	PlaceholderMessage = "Select a character to view details."
)

// Catalog is the lookup the formatter reads records from
type Catalog interface {
	Get(name string) (*codex.Record, error)
}

// Payload is everything the detail panel displays
type Payload struct {
	// Placeholder is set when no character is selected; only Message is filled
	Placeholder bool
	Message     string

	Heading      string
	Body         string
	MovesLabel   string
	Moves        string
	WeaponsLabel string
	Weapons      string
}

// Render formats the detail panel for state. It never touches the catalog
// for an unselected state.
func Render(cat Catalog, state selection.State) (*Payload, error) {
	if !state.IsSelected() {
		return &Payload{
			Placeholder: true,
			Message:     PlaceholderMessage,
		}, nil
	}

	rec, err := cat.Get(state.Name())
	if err != nil {
		return nil, apperr.Wrapf(err, "failed to render %s", state.Name())
	}

	return &Payload{
		Heading:      state.Name(),
		Body:         rec.Description,
		MovesLabel:   MovesLabel,
		Moves:        Join(rec.Moves),
		WeaponsLabel: WeaponsLabel,
		Weapons:      Join(rec.Weapons),
	}, nil
}

// Join renders a list for display; an empty list renders as ""
func Join(items []string) string {
	return strings.Join(items, Separator)
}
