package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/shinobi-codex/internal/catalog"
	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
	"github.com/KirkDiggler/shinobi-codex/internal/selection"
	"github.com/KirkDiggler/shinobi-codex/internal/view"
)

// countingCatalog fails the test if the formatter looks anything up
type countingCatalog struct {
	lookups int
}

func (c *countingCatalog) Get(name string) (*codex.Record, error) {
	c.lookups++
	return nil, apperr.UnknownCharacter(name)
}

func TestRender_UnselectedIsPlaceholderWithoutLookup(t *testing.T) {
	cat := &countingCatalog{}

	payload, err := view.Render(cat, selection.Unselected())

	require.NoError(t, err)
	assert.True(t, payload.Placeholder)
	assert.Equal(t, view.PlaceholderMessage, payload.Message)
	assert.Empty(t, payload.Heading)
	assert.Equal(t, 0, cat.lookups)
}

func TestRender_SelectedEveryDefaultCharacter(t *testing.T) {
	cat := catalog.MustDefault()

	for _, name := range cat.Keys() {
		state, err := selection.Apply(cat, selection.Unselected(), selection.ChooseViaSelector(name))
		require.NoError(t, err)

		payload, err := view.Render(cat, state)
		require.NoError(t, err)

		rec, err := cat.Get(name)
		require.NoError(t, err)

		assert.False(t, payload.Placeholder)
		assert.Equal(t, name, payload.Heading)
		assert.Equal(t, rec.Description, payload.Body)
		assert.Equal(t, "Moves:", payload.MovesLabel)
		assert.Equal(t, "Weapons:", payload.WeaponsLabel)
	}
}

func TestRender_NarutoMoves(t *testing.T) {
	cat := catalog.MustDefault()

	payload, err := view.Render(cat, selection.Selected("Naruto Uzumaki"))

	require.NoError(t, err)
	assert.Equal(t, "Rasengan, Shadow Clone Jutsu, Sage Mode", payload.Moves)
	assert.Equal(t, "Kunai, Shuriken", payload.Weapons)
}

func TestRender_UnknownSelectionIsAnError(t *testing.T) {
	payload, err := view.Render(catalog.MustDefault(), selection.Selected("Rock Lee"))

	assert.Nil(t, payload)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRender_EmptyListsRenderEmpty(t *testing.T) {
	cat, err := catalog.New(catalog.Entry{Name: "Nobody", Description: "?"})
	require.NoError(t, err)

	payload, err := view.Render(cat, selection.Selected("Nobody"))

	require.NoError(t, err)
	assert.Equal(t, "", payload.Moves)
	assert.Equal(t, "", payload.Weapons)
	assert.Equal(t, "Moves:", payload.MovesLabel)
}

func TestRender_Deterministic(t *testing.T) {
	cat := catalog.MustDefault()
	state := selection.Selected("Sasuke Uchiha")

	first, err := view.Render(cat, state)
	require.NoError(t, err)
	second, err := view.Render(cat, state)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "Rasengan, Shadow Clone Jutsu, Sage Mode", view.Join([]string{"Rasengan", "Shadow Clone Jutsu", "Sage Mode"}))
	assert.Equal(t, "X", view.Join([]string{"X"}))
	assert.Equal(t, "", view.Join(nil))
	assert.Equal(t, "", view.Join([]string{}))
}

func TestEndToEnd_TwoCharacterScenario(t *testing.T) {
	cat, err := catalog.New(
		catalog.Entry{Name: "Naruto Uzumaki", Description: "D1", Moves: []string{"A", "B"}, Weapons: []string{"X"}},
		catalog.Entry{Name: "Sasuke Uchiha", Description: "D2", Moves: []string{"C"}, Weapons: []string{"Y", "Z"}},
	)
	require.NoError(t, err)

	state := selection.Unselected()
	payload, err := view.Render(cat, state)
	require.NoError(t, err)
	assert.True(t, payload.Placeholder)

	state, err = selection.Apply(cat, state, selection.ChooseViaButton("Sasuke Uchiha"))
	require.NoError(t, err)
	payload, err = view.Render(cat, state)
	require.NoError(t, err)
	assert.Equal(t, &view.Payload{
		Heading:      "Sasuke Uchiha",
		Body:         "D2",
		MovesLabel:   "Moves:",
		Moves:        "C",
		WeaponsLabel: "Weapons:",
		Weapons:      "Y, Z",
	}, payload)

	state, err = selection.Apply(cat, state, selection.ChooseViaSelector("Naruto Uzumaki"))
	require.NoError(t, err)
	payload, err = view.Render(cat, state)
	require.NoError(t, err)
	assert.Equal(t, "Naruto Uzumaki", payload.Heading)
	assert.Equal(t, "D1", payload.Body)
	assert.Equal(t, "A, B", payload.Moves)
	assert.Equal(t, "X", payload.Weapons)
}

func TestDefaultPage(t *testing.T) {
	page := view.DefaultPage()

	assert.Equal(t, "Naruto Characters", page.Title)
	assert.Equal(t, "Click on a character to learn more about them!", page.Intro)
	assert.Equal(t, "About Gaara", view.ButtonLabel("Gaara"))
}
