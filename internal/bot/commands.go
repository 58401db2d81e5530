package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/flor3z/autonumber-bot/internal/game"
	"github.com/flor3z/autonumber-bot/internal/ledger"
)

// leaderboardSize is how many players /stats lists
const leaderboardSize = 10

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "start",
			Description: "Show the rules of the number hunt",
		},
		{
			Name:        "help",
			Description: "How to play",
		},
		{
			Name:        "stats",
			Description: "Game statistics and top players",
		},
		{
			Name:        "missing",
			Description: "List the first missing numbers",
		},
		{
			Name:        "release",
			Description: "Give back a number you claimed",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "number",
					Description: "The number to release (e.g., 007)",
					Required:    true,
				},
			},
		},
		{
			Name:        "reset",
			Description: "Clear all numbers (admin only)",
		},
		{
			Name:        "botstats",
			Description: "Bot processing statistics (admin only)",
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	user := interactionUser(i)
	if user == nil || user.Bot {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "user", user.ID, "guild", i.GuildID)

	switch data.Name {
	case "start":
		respondWithMessage(s, i, welcomeText(b.service.Registry().MaxSlots()))
	case "help":
		respondWithMessage(s, i, helpText(b.service.Registry().MaxSlots()))
	case "stats":
		b.handleStats(s, i)
	case "missing":
		respondWithMessage(s, i, b.service.Missing().Text)
	case "release":
		b.handleRelease(s, i, user.ID)
	case "reset":
		b.handleReset(s, i, user.ID)
	case "botstats":
		b.handleBotStats(s, i, user.ID)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}

// handleStats handles the /stats command
func (b *Bot) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Name lookups can be slow; respond immediately to avoid timeout
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	summary := b.service.Summary().Text
	entries := game.WithDisplayNames(ctx, b.service.Registry().OwnerCounts(), b.resolver, leaderboardSize)
	b.editResponse(s, i, summary+"\n\n"+formatLeaderboard(entries))
}

// handleRelease handles the /release command
func (b *Bot) handleRelease(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	number := i.ApplicationCommandData().Options[0].StringValue()

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	resp, err := b.service.Release(ctx, number, userID)
	if err != nil {
		slog.Error("Failed to release number", "number", number, "error", err)
		respondWithMessage(s, i, "Failed to release the number. Please try again.")
		return
	}
	respondWithMessage(s, i, resp.Text)
}

// handleReset handles the /reset command
func (b *Bot) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	if !b.isAdmin(userID) {
		respondWithEphemeral(s, i, "You do not have permission to run this command")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	resp, err := b.service.Reset(ctx)
	if err != nil {
		slog.Error("Failed to reset game", "error", err)
		respondWithMessage(s, i, "Failed to reset the game. Please try again.")
		return
	}
	slog.Info("Game reset by admin", "user", userID)
	respondWithMessage(s, i, resp.Text)
}

// handleBotStats handles the /botstats command
func (b *Bot) handleBotStats(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	if !b.isAdmin(userID) {
		respondWithEphemeral(s, i, "You do not have permission to run this command")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	st, err := b.ledger.Load(ctx)
	if err != nil {
		slog.Error("Failed to load bot state", "error", err)
		respondWithEphemeral(s, i, "❌ Failed to load statistics")
		return
	}
	st.Uptime = b.ledger.Uptime()
	respondWithEphemeral(s, i, formatBotStats(st, b.isRunning, b.service.Registry().Stats()))
}

// Helper functions

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func welcomeText(maxSlots int) string {
	last := game.FormatKey(maxSlots)
	return "🚗 Welcome to AutoNumber! 🚗\n\n" +
		"Rules:\n" +
		fmt.Sprintf("• Send car plate numbers from 001 to %s\n", last) +
		"• A new number gets \"saved\"\n" +
		"• A number someone already found gets \"already claimed\"\n" +
		fmt.Sprintf("• Send %q to see missing numbers\n", game.MissingQuery) +
		fmt.Sprintf("• Goal: find all %d numbers!\n\n", maxSlots) +
		"Commands:\n" +
		"/stats - game statistics\n" +
		"/help - help\n\n" +
		"Start playing! 🎮"
}

func helpText(maxSlots int) string {
	return "📖 AutoNumber help\n\n" +
		fmt.Sprintf("🎯 Goal: collect every number from 001 to %s\n\n", game.FormatKey(maxSlots)) +
		"📝 How to play:\n" +
		fmt.Sprintf("1. Send any number from 1 to %d\n", maxSlots) +
		"2. The bot answers \"saved\" or \"already claimed\"\n" +
		"3. Every 10 remaining numbers the bot reports progress\n" +
		fmt.Sprintf("4. Send %q to list missing numbers\n", game.MissingQuery) +
		"5. Use /release to give back a number you claimed by mistake\n\n" +
		fmt.Sprintf("🏆 Victory: when all %d numbers are found!\n\n", maxSlots) +
		"Commands:\n" +
		"/start - rules\n" +
		"/stats - statistics\n" +
		"/missing - missing numbers\n" +
		"/help - this help"
}

func formatLeaderboard(entries []game.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "📝 Nobody has found a number yet"
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top players:\n")
	for idx, e := range entries {
		medal := "🎯"
		switch idx {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		sb.WriteString(fmt.Sprintf("%s %s (@%s): %d numbers\n", medal, e.DisplayName, e.Username, e.Count))
	}
	return sb.String()
}

func formatBotStats(st ledger.State, running bool, summary game.Summary) string {
	status := "Stopped"
	if running {
		status = "Running"
	}
	return "🤖 Bot statistics:\n\n" +
		fmt.Sprintf("📊 Last update id: %d\n", st.LastUpdateID) +
		fmt.Sprintf("🕐 Last activity: %s\n", st.LastActivity.Format("2006-01-02 15:04:05 MST")) +
		fmt.Sprintf("⏱️ Uptime: %d min\n", int(st.Uptime.Minutes())) +
		fmt.Sprintf("💬 Messages processed: %d\n", st.TotalMessagesProcessed) +
		fmt.Sprintf("🔄 Status: %s\n\n", status) +
		"🎮 Game statistics:\n" +
		fmt.Sprintf("📈 Numbers found: %d\n", summary.Claimed) +
		fmt.Sprintf("⏳ Remaining: %d\n", summary.Remaining) +
		fmt.Sprintf("👥 Players: %d", summary.Players)
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func respondWithEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}
