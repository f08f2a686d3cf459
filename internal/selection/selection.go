package selection

import (
	"sort"

	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
)

// Catalog is the part of the character catalog the reducer needs
type Catalog interface {
	Has(name string) bool
}

// State is the current selection of one session. The zero value is Unselected.
type State struct {
	name string
}

// Unselected is the initial state of every session
func Unselected() State {
	return State{}
}

// Selected returns the state showing name. It does not check the catalog.
func Selected(name string) State {
	return State{name: name}
}

// IsSelected reports whether a character has been chosen
func (s State) IsSelected() bool {
	return s.name != ""
}

// Name returns the selected character, or "" when unselected
func (s State) Name() string {
	return s.name
}

func (s State) String() string {
	if !s.IsSelected() {
		return "Unselected"
	}
	return "Selected(" + s.name + ")"
}

// Source identifies which input channel produced an event
type Source int

const (
	// SourceSelector is the single-choice select menu
	SourceSelector Source = iota

	// SourceButton is one of the "About {name}" buttons
	SourceButton
)

func (s Source) String() string {
	switch s {
	case SourceSelector:
		return "selector"
	case SourceButton:
		return "button"
	default:
		return "unknown"
	}
}

// Event is a single selection-triggering interaction
type Event struct {
	Source Source
	Name   string
}

// ChooseViaSelector is fired when the select menu value changes
func ChooseViaSelector(name string) Event {
	return Event{Source: SourceSelector, Name: name}
}

// ChooseViaButton is fired when the button for name is pressed
func ChooseViaButton(name string) Event {
	return Event{Source: SourceButton, Name: name}
}

// Apply returns the state after ev. Both sources overwrite the selection;
// there is no transition back to Unselected. A name outside the catalog
// means an input channel offered something it should not have, so the
// state is returned unchanged together with a not-found error.
func Apply(cat Catalog, state State, ev Event) (State, error) {
	if !cat.Has(ev.Name) {
		return state, apperr.UnknownCharacter(ev.Name).WithMeta("source", ev.Source.String())
	}
	return Selected(ev.Name), nil
}

// ApplyCycle applies every event observed in one interaction cycle.
// Selector events are applied before button events, keeping arrival order
// within a source, so a button press wins over a selector change in the
// same cycle. Nothing is applied if any event names an unknown character.
func ApplyCycle(cat Catalog, state State, events ...Event) (State, error) {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source < ordered[j].Source
	})

	next := state
	for _, ev := range ordered {
		var err error
		next, err = Apply(cat, next, ev)
		if err != nil {
			return state, err
		}
	}

	return next, nil
}
