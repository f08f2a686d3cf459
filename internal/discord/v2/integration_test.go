package v2_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/shinobi-codex/internal/catalog"
	v2 "github.com/KirkDiggler/shinobi-codex/internal/discord/v2"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/core"
	"github.com/KirkDiggler/shinobi-codex/internal/services"
	"github.com/KirkDiggler/shinobi-codex/internal/uuid"
	"github.com/KirkDiggler/shinobi-codex/internal/view"
)

func command(channelID, userID, name string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: channelID,
			Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
			Data:      discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}

func component(channelID, userID, customID string, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionMessageComponent,
			ChannelID: channelID,
			Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
			Data:      discordgo.MessageComponentInteractionData{CustomID: customID, Values: values},
		},
	}
}

func setup(t *testing.T, rateLimit int) *core.Pipeline {
	t.Helper()
	provider := services.NewProvider(&services.ProviderConfig{Catalog: catalog.MustDefault()})
	pipeline, err := v2.SetupPipeline(provider, &v2.Config{
		RateLimitPerMinute: rateLimit,
		RequestIDs:         uuid.GeneratorFunc(func() string { return "req" }),
	})
	require.NoError(t, err)
	return pipeline
}

func details(t *testing.T, resp *discordgo.InteractionResponse) *discordgo.MessageEmbed {
	t.Helper()
	require.NotNil(t, resp)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Embeds, 2)
	return resp.Data.Embeds[1]
}

func TestCodexFlow(t *testing.T) {
	pipeline := setup(t, 0)
	session := &core.RecordingSession{}
	ctx := context.Background()

	// Open the page
	require.NoError(t, pipeline.Execute(ctx, session, command("chan", "alice", "characters")))
	resp := session.LastResponse()
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Equal(t, view.PlaceholderMessage, details(t, resp).Description)

	// Press "About Sasuke Uchiha"
	require.NoError(t, pipeline.Execute(ctx, session, component("chan", "alice", "codex:about:Sasuke Uchiha")))
	resp = session.LastResponse()
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	d := details(t, resp)
	assert.Equal(t, "Sasuke Uchiha", d.Title)
	assert.Equal(t, "Chidori, Amaterasu, Susano'o", d.Fields[0].Value)
	assert.Equal(t, "Kusanagi Sword, Shuriken", d.Fields[1].Value)

	// Choose Naruto in the selector
	require.NoError(t, pipeline.Execute(ctx, session, component("chan", "alice", "codex:select", "Naruto Uzumaki")))
	d = details(t, session.LastResponse())
	assert.Equal(t, "Naruto Uzumaki", d.Title)
	assert.Equal(t, "Rasengan, Shadow Clone Jutsu, Sage Mode", d.Fields[0].Value)
	assert.Equal(t, "Kunai, Shuriken", d.Fields[1].Value)

	// Another user in the same channel has their own page
	require.NoError(t, pipeline.Execute(ctx, session, component("chan", "bob", "codex:select", "Gaara")))
	assert.Equal(t, "Gaara", details(t, session.LastResponse()).Title)

	require.NoError(t, pipeline.Execute(ctx, session, component("chan", "alice", "codex:about:Naruto Uzumaki")))
	assert.Equal(t, "Naruto Uzumaki", details(t, session.LastResponse()).Title)
}

func TestCodexFlow_UnknownCharacter(t *testing.T) {
	pipeline := setup(t, 0)
	session := &core.RecordingSession{}

	require.NoError(t, pipeline.Execute(context.Background(), session, component("chan", "alice", "codex:about:Rock Lee")))

	resp := session.LastResponse()
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Equal(t, "An internal error occurred. Please try again later.", resp.Data.Content)
}

func TestCodexFlow_UnroutedInteraction(t *testing.T) {
	pipeline := setup(t, 0)
	session := &core.RecordingSession{}

	require.NoError(t, pipeline.Execute(context.Background(), session, command("chan", "alice", "dnd")))

	resp := session.LastResponse()
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Contains(t, resp.Data.Content, "don't know how to handle")
}

func TestCodexFlow_RateLimited(t *testing.T) {
	pipeline := setup(t, 2)
	session := &core.RecordingSession{}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, pipeline.Execute(ctx, session, component("chan", "alice", "codex:about:Gaara")))
		assert.Equal(t, discordgo.InteractionResponseUpdateMessage, session.LastResponse().Type)
	}

	require.NoError(t, pipeline.Execute(ctx, session, component("chan", "alice", "codex:about:Gaara")))
	resp := session.LastResponse()
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Contains(t, resp.Data.Content, "too fast")
}
