package handlers

import (
	"fmt"
	"log"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/builders"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
	"github.com/KirkDiggler/shinobi-codex/internal/selection"
	selectionService "github.com/KirkDiggler/shinobi-codex/internal/services/selection"
	"github.com/KirkDiggler/shinobi-codex/internal/view"
)

const (
	// ActionSelect is the custom ID action of the character selector
	ActionSelect = "select"

	// ActionAbout is the custom ID action of the "About {name}" buttons
	ActionAbout = "about"

	// MaxAboutButtons keeps the selector row plus four button rows within Discord's five rows
	MaxAboutButtons = (builders.MaxRows - 1) * builders.MaxButtonsPerRow
)

// CodexHandler renders the character page and applies selector and button events
type CodexHandler struct {
	service         selectionService.Service
	page            view.Page
	customIDBuilder *core.CustomIDBuilder
}

// CodexHandlerConfig holds the configuration
type CodexHandlerConfig struct {
	Service         selectionService.Service // Required
	Page            *view.Page               // Optional, defaults to view.DefaultPage()
	CustomIDBuilder *core.CustomIDBuilder    // Optional, defaults to the "codex" domain
}

// NewCodexHandler creates a new codex handler
func NewCodexHandler(cfg *CodexHandlerConfig) (*CodexHandler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Service == nil {
		return nil, fmt.Errorf("service is required")
	}

	cat := cfg.Service.Catalog()
	if cat.Len() == 0 {
		return nil, fmt.Errorf("catalog has no characters")
	}
	if cat.Len() > builders.MaxSelectOptions {
		return nil, fmt.Errorf("catalog has %d characters, the selector holds at most %d", cat.Len(), builders.MaxSelectOptions)
	}

	page := view.DefaultPage()
	if cfg.Page != nil {
		page = *cfg.Page
	}

	customIDBuilder := cfg.CustomIDBuilder
	if customIDBuilder == nil {
		customIDBuilder = core.NewCustomIDBuilder("codex")
	}

	if cat.Len() > MaxAboutButtons {
		log.Printf("[Codex] Catalog has %d characters, only the first %d get an About button", cat.Len(), MaxAboutButtons)
	}

	h := &CodexHandler{
		service:         cfg.Service,
		page:            page,
		customIDBuilder: customIDBuilder,
	}

	// Every page carries the same controls, so one that builds now builds always
	payload, err := view.Render(cat, selection.Unselected())
	if err != nil {
		return nil, fmt.Errorf("failed to render empty page: %w", err)
	}
	if _, err := h.BuildPage(payload, selection.Unselected()); err != nil {
		return nil, fmt.Errorf("catalog does not fit the page: %w", err)
	}

	return h, nil
}

// HandleCommand opens a fresh page. Each /characters run starts Unselected.
func (h *CodexHandler) HandleCommand(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	sessionID := codex.SessionID(ctx.ChannelID, ctx.UserID)

	if err := h.service.Reset(ctx.Context, sessionID); err != nil {
		return nil, h.mapError(err)
	}

	payload, state, err := h.service.View(ctx.Context, sessionID)
	if err != nil {
		return nil, h.mapError(err)
	}

	response, err := h.BuildPage(payload, state)
	if err != nil {
		return nil, core.NewInternalError(err)
	}

	return &core.HandlerResult{Response: response.AsEphemeral()}, nil
}

// HandleSelect applies a selector choice
func (h *CodexHandler) HandleSelect(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	values := ctx.GetValues()
	if len(values) == 0 {
		return nil, core.NewValidationError("Pick a character from the list.")
	}

	return h.dispatch(ctx, selection.ChooseViaSelector(values[0]))
}

// HandleAbout applies an "About {name}" button press
func (h *CodexHandler) HandleAbout(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	customID, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil || customID.Target == "" {
		return nil, core.NewValidationError("That button does not name a character.")
	}

	return h.dispatch(ctx, selection.ChooseViaButton(customID.Target))
}

func (h *CodexHandler) dispatch(ctx *core.InteractionContext, events ...selection.Event) (*core.HandlerResult, error) {
	sessionID := codex.SessionID(ctx.ChannelID, ctx.UserID)

	payload, state, err := h.service.Dispatch(ctx.Context, sessionID, events...)
	if err != nil {
		return nil, h.mapError(err)
	}

	response, err := h.BuildPage(payload, state)
	if err != nil {
		return nil, core.NewInternalError(err)
	}

	return &core.HandlerResult{Response: response.AsUpdate()}, nil
}

// mapError treats an unknown character as a bug in the page (every control
// is built from the catalog). Storage errors pass through so the error
// middleware can tell the user to retry.
func (h *CodexHandler) mapError(err error) error {
	if apperr.IsNotFound(err) || apperr.IsInvalidArgument(err) {
		return core.NewInternalError(err)
	}
	return err
}

// BuildPage lays out the chrome, the detail panel, the selector and the buttons
func (h *CodexHandler) BuildPage(payload *view.Payload, state selection.State) (*core.Response, error) {
	chrome := builders.NewEmbed().
		Author(h.page.MainHeader).
		Title(h.page.Title).
		Description(h.page.Intro).
		Footer(h.page.SidebarTitle).
		Color(builders.ColorPrimary).
		Build()

	details := builders.NewEmbed().Author(h.page.DetailsHeader)
	if payload.Placeholder {
		details.Description(payload.Message).Color(builders.ColorMuted)
	} else {
		details.Title(payload.Heading).
			Description(payload.Body).
			Field(payload.MovesLabel, payload.Moves, false).
			Field(payload.WeaponsLabel, payload.Weapons, false).
			Color(builders.ColorPrimary)
	}

	names := h.service.Catalog().Keys()

	options := make([]builders.SelectOption, len(names))
	for i, name := range names {
		options[i] = builders.SelectOption{
			Label:   name,
			Value:   name,
			Default: state.IsSelected() && state.Name() == name,
		}
	}

	components := builders.NewComponentBuilder(h.customIDBuilder).
		SelectMenu(h.page.SelectorLabel, ActionSelect, options)

	if len(names) > MaxAboutButtons {
		names = names[:MaxAboutButtons]
	}
	for _, name := range names {
		if state.IsSelected() && state.Name() == name {
			components.PrimaryButton(view.ButtonLabel(name), ActionAbout, name)
			continue
		}
		components.SecondaryButton(view.ButtonLabel(name), ActionAbout, name)
	}

	rows := components.Build()
	if err := components.Err(); err != nil {
		return nil, err
	}

	return core.NewResponse("").
		WithEmbeds(chrome, details.Build()).
		WithComponents(rows...), nil
}
