package builders

import (
	"fmt"
	"unicode/utf8"

	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	"github.com/bwmarrin/discordgo"
)

// Discord component limits
const (
	MaxRows          = 5
	MaxButtonsPerRow = 5
	MaxSelectOptions = 25

	MaxButtonLabelLength = 80
	MaxOptionLength      = 100
)

// ComponentBuilder builds Discord message components. The first error hit
// while building is kept and reported by Err.
type ComponentBuilder struct {
	rows            []discordgo.MessageComponent
	currentRow      []discordgo.MessageComponent
	customIDBuilder *core.CustomIDBuilder
	err             error
}

// NewComponentBuilder creates a new component builder
func NewComponentBuilder(customIDBuilder *core.CustomIDBuilder) *ComponentBuilder {
	return &ComponentBuilder{
		rows:            make([]discordgo.MessageComponent, 0),
		currentRow:      make([]discordgo.MessageComponent, 0, MaxButtonsPerRow),
		customIDBuilder: customIDBuilder,
	}
}

// Button adds a button to the current row
func (b *ComponentBuilder) Button(label string, style discordgo.ButtonStyle, action, target string, args ...string) *ComponentBuilder {
	if n := utf8.RuneCountInString(label); n > MaxButtonLabelLength {
		b.fail(fmt.Errorf("button %q: label is %d characters, max is %d", label, n, MaxButtonLabelLength))
		return b
	}

	customID, err := b.customIDBuilder.Button(action, target, args...)
	if err != nil {
		b.fail(fmt.Errorf("button %q: %w", label, err))
		return b
	}

	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: customID,
	})
	return b
}

// PrimaryButton adds a primary button
func (b *ComponentBuilder) PrimaryButton(label, action, target string) *ComponentBuilder {
	return b.Button(label, discordgo.PrimaryButton, action, target)
}

// SecondaryButton adds a secondary button
func (b *ComponentBuilder) SecondaryButton(label, action, target string) *ComponentBuilder {
	return b.Button(label, discordgo.SecondaryButton, action, target)
}

// SelectMenu adds a select menu on a row of its own
func (b *ComponentBuilder) SelectMenu(placeholder, action string, options []SelectOption) *ComponentBuilder {
	if len(options) == 0 {
		b.fail(fmt.Errorf("select menu %q has no options", action))
		return b
	}
	if len(options) > MaxSelectOptions {
		b.fail(fmt.Errorf("select menu %q has %d options, max is %d", action, len(options), MaxSelectOptions))
		return b
	}

	customID, err := b.customIDBuilder.Select(action)
	if err != nil {
		b.fail(fmt.Errorf("select menu %q: %w", action, err))
		return b
	}

	discordOptions := make([]discordgo.SelectMenuOption, len(options))
	for i, opt := range options {
		if utf8.RuneCountInString(opt.Label) > MaxOptionLength || utf8.RuneCountInString(opt.Value) > MaxOptionLength {
			b.fail(fmt.Errorf("select menu %q: option %q exceeds %d characters", action, opt.Value, MaxOptionLength))
			return b
		}
		discordOptions[i] = discordgo.SelectMenuOption{
			Label:       opt.Label,
			Value:       opt.Value,
			Description: opt.Description,
			Default:     opt.Default,
		}
	}

	b.NewRow()
	b.addComponent(discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     discordOptions,
	})
	b.NewRow()
	return b
}

// NewRow starts a new action row
func (b *ComponentBuilder) NewRow() *ComponentBuilder {
	if len(b.currentRow) > 0 {
		b.rows = append(b.rows, discordgo.ActionsRow{
			Components: b.currentRow,
		})
		b.currentRow = make([]discordgo.MessageComponent, 0, MaxButtonsPerRow)
	}
	return b
}

// Build returns the built components
func (b *ComponentBuilder) Build() []discordgo.MessageComponent {
	b.NewRow()
	return b.rows
}

// Err returns the first error hit while building
func (b *ComponentBuilder) Err() error {
	return b.err
}

func (b *ComponentBuilder) addComponent(component discordgo.MessageComponent) {
	if len(b.currentRow) >= MaxButtonsPerRow {
		b.NewRow()
	}
	if len(b.currentRow) == 0 && len(b.rows) >= MaxRows {
		b.fail(fmt.Errorf("message already has %d component rows", MaxRows))
		return
	}

	b.currentRow = append(b.currentRow, component)
}

func (b *ComponentBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// SelectOption represents an option in a select menu
type SelectOption struct {
	Label       string
	Value       string
	Description string
	Default     bool
}
