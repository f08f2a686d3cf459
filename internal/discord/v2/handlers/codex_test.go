package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/shinobi-codex/internal/catalog"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/handlers"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
	"github.com/KirkDiggler/shinobi-codex/internal/repositories/selections"
	mockselections "github.com/KirkDiggler/shinobi-codex/internal/repositories/selections/mock"
	"github.com/KirkDiggler/shinobi-codex/internal/selection"
	selectionService "github.com/KirkDiggler/shinobi-codex/internal/services/selection"
	"github.com/KirkDiggler/shinobi-codex/internal/view"
)

const sessionID = "test-channel-123:test-user-123"

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		catalog.Entry{Name: "Naruto Uzumaki", Description: "D1", Moves: []string{"A", "B"}, Weapons: []string{"X"}},
		catalog.Entry{Name: "Sasuke Uchiha", Description: "D2", Moves: []string{"C"}, Weapons: []string{"Y", "Z"}},
	)
	require.NoError(t, err)
	return c
}

func setupHandler(t *testing.T, repo selections.Repository) (*handlers.CodexHandler, selectionService.Service) {
	t.Helper()
	if repo == nil {
		repo = selections.NewInMemoryRepository(nil)
	}
	svc := selectionService.NewService(&selectionService.ServiceConfig{
		Catalog:    testCatalog(t),
		Repository: repo,
	})

	handler, err := handlers.NewCodexHandler(&handlers.CodexHandlerConfig{Service: svc})
	require.NoError(t, err)

	return handler, svc
}

func detailEmbed(t *testing.T, resp *core.Response) *discordgo.MessageEmbed {
	t.Helper()
	require.Len(t, resp.Embeds, 2)
	return resp.Embeds[1]
}

func selectMenu(t *testing.T, resp *core.Response) discordgo.SelectMenu {
	t.Helper()
	require.NotEmpty(t, resp.Components)
	row := resp.Components[0].(discordgo.ActionsRow)
	return row.Components[0].(discordgo.SelectMenu)
}

func buttons(t *testing.T, resp *core.Response) []discordgo.Button {
	t.Helper()
	var out []discordgo.Button
	for _, c := range resp.Components[1:] {
		for _, b := range c.(discordgo.ActionsRow).Components {
			out = append(out, b.(discordgo.Button))
		}
	}
	return out
}

func TestNewCodexHandler_Validation(t *testing.T) {
	_, err := handlers.NewCodexHandler(nil)
	assert.Error(t, err)

	_, err = handlers.NewCodexHandler(&handlers.CodexHandlerConfig{})
	assert.Error(t, err)

	entries := make([]catalog.Entry, 26)
	for i := range entries {
		entries[i] = catalog.Entry{Name: fmt.Sprintf("Ninja %d", i)}
	}
	big, err := catalog.New(entries...)
	require.NoError(t, err)

	_, err = handlers.NewCodexHandler(&handlers.CodexHandlerConfig{
		Service: selectionService.NewService(&selectionService.ServiceConfig{
			Catalog:    big,
			Repository: selections.NewInMemoryRepository(nil),
		}),
	})
	assert.Error(t, err)
}

func TestNewCodexHandler_RejectsPageThatCannotBuild(t *testing.T) {
	svc := selectionService.NewService(&selectionService.ServiceConfig{
		Catalog:    testCatalog(t),
		Repository: selections.NewInMemoryRepository(nil),
	})

	// A long domain pushes "About" custom IDs past Discord's limit
	_, err := handlers.NewCodexHandler(&handlers.CodexHandlerConfig{
		Service:         svc,
		CustomIDBuilder: core.NewCustomIDBuilder(strings.Repeat("d", 90)),
	})

	assert.ErrorContains(t, err, "custom ID exceeds maximum length")
}

func TestNewCodexHandler_LongestCatalogNameRenders(t *testing.T) {
	name := strings.Repeat("n", catalog.MaxNameLength)
	c, err := catalog.New(catalog.Entry{Name: name})
	require.NoError(t, err)

	svc := selectionService.NewService(&selectionService.ServiceConfig{
		Catalog:    c,
		Repository: selections.NewInMemoryRepository(nil),
	})
	handler, err := handlers.NewCodexHandler(&handlers.CodexHandlerConfig{Service: svc})
	require.NoError(t, err)

	result, err := handler.HandleAbout(core.NewTestInteractionContext().AsComponent("codex:about:" + name).InteractionContext)
	require.NoError(t, err)
	assert.Equal(t, name, detailEmbed(t, result.Response).Title)
}

func TestCodexHandler_CommandShowsPlaceholderPage(t *testing.T) {
	handler, _ := setupHandler(t, nil)
	ctx := core.NewTestInteractionContext().AsCommand("characters")

	result, err := handler.HandleCommand(ctx.InteractionContext)

	require.NoError(t, err)
	resp := result.Response
	assert.True(t, resp.Ephemeral)
	assert.False(t, resp.Update)

	page := view.DefaultPage()
	assert.Equal(t, page.Title, resp.Embeds[0].Title)
	assert.Equal(t, page.Intro, resp.Embeds[0].Description)

	details := detailEmbed(t, resp)
	assert.Equal(t, page.DetailsHeader, details.Author.Name)
	assert.Equal(t, view.PlaceholderMessage, details.Description)
	assert.Empty(t, details.Fields)

	menu := selectMenu(t, resp)
	assert.Equal(t, "codex:select", menu.CustomID)
	assert.Equal(t, page.SelectorLabel, menu.Placeholder)
	require.Len(t, menu.Options, 2)
	assert.Equal(t, "Naruto Uzumaki", menu.Options[0].Value)
	assert.Equal(t, "Sasuke Uchiha", menu.Options[1].Value)
	assert.False(t, menu.Options[0].Default)

	btns := buttons(t, resp)
	require.Len(t, btns, 2)
	assert.Equal(t, "About Naruto Uzumaki", btns[0].Label)
	assert.Equal(t, "codex:about:Naruto Uzumaki", btns[0].CustomID)
	assert.Equal(t, "About Sasuke Uchiha", btns[1].Label)
}

func TestCodexHandler_ButtonThenSelector(t *testing.T) {
	handler, svc := setupHandler(t, nil)

	// Click "About Sasuke Uchiha"
	ctx := core.NewTestInteractionContext().AsComponent("codex:about:Sasuke Uchiha")
	result, err := handler.HandleAbout(ctx.InteractionContext)
	require.NoError(t, err)

	resp := result.Response
	assert.True(t, resp.Update)
	details := detailEmbed(t, resp)
	assert.Equal(t, "Sasuke Uchiha", details.Title)
	assert.Equal(t, "D2", details.Description)
	require.Len(t, details.Fields, 2)
	assert.Equal(t, view.MovesLabel, details.Fields[0].Name)
	assert.Equal(t, "C", details.Fields[0].Value)
	assert.Equal(t, view.WeaponsLabel, details.Fields[1].Name)
	assert.Equal(t, "Y, Z", details.Fields[1].Value)

	menu := selectMenu(t, resp)
	assert.False(t, menu.Options[0].Default)
	assert.True(t, menu.Options[1].Default)

	btns := buttons(t, resp)
	assert.Equal(t, discordgo.SecondaryButton, btns[0].Style)
	assert.Equal(t, discordgo.PrimaryButton, btns[1].Style)

	// Choose Naruto in the selector
	ctx = core.NewTestInteractionContext().AsSelect("codex:select", "Naruto Uzumaki")
	result, err = handler.HandleSelect(ctx.InteractionContext)
	require.NoError(t, err)

	details = detailEmbed(t, result.Response)
	assert.Equal(t, "Naruto Uzumaki", details.Title)
	assert.Equal(t, "D1", details.Description)
	assert.Equal(t, "A, B", details.Fields[0].Value)
	assert.Equal(t, "X", details.Fields[1].Value)

	state, err := svc.Current(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, selection.Selected("Naruto Uzumaki"), state)
}

func TestCodexHandler_CommandResetsSelection(t *testing.T) {
	handler, svc := setupHandler(t, nil)

	_, _, err := svc.Dispatch(context.Background(), sessionID, selection.ChooseViaButton("Naruto Uzumaki"))
	require.NoError(t, err)

	result, err := handler.HandleCommand(core.NewTestInteractionContext().AsCommand("characters").InteractionContext)
	require.NoError(t, err)

	assert.Equal(t, view.PlaceholderMessage, detailEmbed(t, result.Response).Description)
}

func TestCodexHandler_EmptyListsRenderAsDash(t *testing.T) {
	c, err := catalog.New(catalog.Entry{Name: "Gaara", Description: "Sand"})
	require.NoError(t, err)
	svc := selectionService.NewService(&selectionService.ServiceConfig{
		Catalog:    c,
		Repository: selections.NewInMemoryRepository(nil),
	})
	handler, err := handlers.NewCodexHandler(&handlers.CodexHandlerConfig{Service: svc})
	require.NoError(t, err)

	result, err := handler.HandleAbout(core.NewTestInteractionContext().AsComponent("codex:about:Gaara").InteractionContext)
	require.NoError(t, err)

	details := detailEmbed(t, result.Response)
	assert.Equal(t, "-", details.Fields[0].Value)
	assert.Equal(t, "-", details.Fields[1].Value)
}

func TestCodexHandler_InvalidInput(t *testing.T) {
	handler, _ := setupHandler(t, nil)

	t.Run("select without values", func(t *testing.T) {
		_, err := handler.HandleSelect(core.NewTestInteractionContext().AsSelect("codex:select").InteractionContext)
		var handlerErr *core.HandlerError
		require.ErrorAs(t, err, &handlerErr)
		assert.Equal(t, core.ErrorCodeBadRequest, handlerErr.Code)
	})

	t.Run("button without target", func(t *testing.T) {
		_, err := handler.HandleAbout(core.NewTestInteractionContext().AsComponent("codex:about").InteractionContext)
		var handlerErr *core.HandlerError
		require.ErrorAs(t, err, &handlerErr)
		assert.Equal(t, core.ErrorCodeBadRequest, handlerErr.Code)
	})

	t.Run("unknown character is an internal error", func(t *testing.T) {
		_, err := handler.HandleAbout(core.NewTestInteractionContext().AsComponent("codex:about:Rock Lee").InteractionContext)
		var handlerErr *core.HandlerError
		require.ErrorAs(t, err, &handlerErr)
		assert.Equal(t, core.ErrorCodeInternal, handlerErr.Code)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCodexHandler_StorageErrorsPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mockselections.NewMockRepository(ctrl)
	handler, _ := setupHandler(t, repo)

	repo.EXPECT().Get(gomock.Any(), sessionID).Return(nil, apperr.Newf(apperr.CodeUnavailable, "redis down"))

	_, err := handler.HandleSelect(core.NewTestInteractionContext().AsSelect("codex:select", "Naruto Uzumaki").InteractionContext)

	require.Error(t, err)
	var handlerErr *core.HandlerError
	assert.False(t, errors.As(err, &handlerErr))
	assert.Equal(t, apperr.CodeUnavailable, apperr.GetCode(err))
}
