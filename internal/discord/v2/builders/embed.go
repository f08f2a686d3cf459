package builders

import (
	"github.com/bwmarrin/discordgo"
)

// Discord caps embed field values at 1024 characters
const MaxFieldValueLength = 1024

// EmbedBuilder provides a fluent API for building Discord embeds
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

// NewEmbed creates a new embed builder
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Type:   discordgo.EmbedTypeRich,
			Fields: make([]*discordgo.MessageEmbedField, 0),
		},
	}
}

// Title sets the embed title
func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = title
	return b
}

// Description sets the embed description
func (b *EmbedBuilder) Description(description string) *EmbedBuilder {
	b.embed.Description = description
	return b
}

// Color sets the embed color
func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.embed.Color = color
	return b
}

// Footer sets the embed footer
func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	b.embed.Footer = &discordgo.MessageEmbedFooter{
		Text: text,
	}
	return b
}

// Author sets the embed author line
func (b *EmbedBuilder) Author(name string) *EmbedBuilder {
	b.embed.Author = &discordgo.MessageEmbedAuthor{
		Name: name,
	}
	return b
}

// Field adds a field to the embed. Empty values are shown as a dash
// since Discord rejects fields without a value.
func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	if value == "" {
		value = "-"
	}
	if runes := []rune(value); len(runes) > MaxFieldValueLength {
		value = string(runes[:MaxFieldValueLength-3]) + "..."
	}
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

// Build returns the constructed embed
func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.embed
}

const (
	ColorPrimary = 0xff7f00 // Orange
	ColorMuted   = 0x99aab5 // Grey
)
