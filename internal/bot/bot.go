package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/flor3z/autonumber-bot/internal/config"
	"github.com/flor3z/autonumber-bot/internal/game"
	"github.com/flor3z/autonumber-bot/internal/ledger"
	"github.com/flor3z/autonumber-bot/internal/metrics"
	"github.com/flor3z/autonumber-bot/internal/storage"
)

// handlerTimeout bounds the work done for one inbound event
const handlerTimeout = 10 * time.Second

// Bot represents the Discord bot instance
type Bot struct {
	config    *config.Config
	session   *discordgo.Session
	stores    *storage.Stores
	gateway   *storage.Gateway
	service   *game.Service
	ledger    *ledger.Ledger
	resolver  game.NameResolver
	isAdmin   game.Authorizer
	collector *metrics.Collector
	exporter  *metrics.Exporter
	commands  []*discordgo.ApplicationCommand

	// cursor is the snowflake of the newest processed message. Only the
	// message handler touches it, and events are dispatched synchronously.
	cursor    int64
	isRunning bool
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	// One update at a time
	session.SyncEvents = true

	// Initialize storage
	stores, err := storage.Open(storage.Options{
		Backend:      cfg.StorageBackend,
		GameFile:     cfg.DataFile,
		LedgerFile:   cfg.StateFile,
		DatabasePath: cfg.DatabasePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	registry := game.NewRegistry(cfg.MaxSlots)
	gateway := storage.NewGateway(stores.Game, slog.Default())

	b := &Bot{
		config:    cfg,
		session:   session,
		stores:    stores,
		gateway:   gateway,
		service:   game.NewService(registry, gateway, game.WithObserver(metrics.Observer{})),
		ledger:    ledger.New(stores.Ledger),
		resolver:  NewUserResolver(session),
		isAdmin:   cfg.IsAdmin,
		collector: metrics.NewCollector(registry, 15*time.Second),
	}
	if cfg.MetricsAddr != "" {
		b.exporter = metrics.NewExporter(cfg.MetricsAddr)
	}

	// Register event handlers
	b.registerHandlers()

	return b, nil
}

// Start loads state, opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	slog.Info("Initializing storage", "backend", b.config.StorageBackend)
	if err := b.gateway.Initialize(ctx, b.service.Registry()); err != nil {
		return fmt.Errorf("failed to load game data: %w", err)
	}
	if err := b.ledger.Prepare(); err != nil {
		return fmt.Errorf("failed to prepare ledger: %w", err)
	}

	cursor, err := b.ledger.LastUpdateID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	b.cursor = cursor
	slog.Info("Resuming from ledger", "lastUpdateId", cursor)

	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	b.isRunning = true

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	go b.collector.Start(ctx)
	if b.exporter != nil {
		go func() {
			slog.Info("Serving metrics", "addr", b.config.MetricsAddr)
			if err := b.exporter.Start(); err != nil {
				slog.Error("Metrics exporter failed", "error", err)
			}
		}()
	}

	return nil
}

// Stop gracefully shuts down the bot and saves the ledger cursor
func (b *Bot) Stop() error {
	b.isRunning = false
	b.collector.Stop()

	if b.exporter != nil {
		if err := b.exporter.Stop(); err != nil {
			slog.Error("Failed to stop metrics exporter", "error", err)
		}
	}

	var sessionErr error
	if b.session != nil {
		sessionErr = b.session.Close()
	}

	if err := b.saveLedgerOnStop(); err != nil {
		slog.Error("Failed to save bot state", "error", err)
	} else {
		slog.Info("Bot state saved", "lastUpdateId", b.cursor)
	}

	// Close storage
	if b.stores != nil {
		b.stores.Close()
	}

	return sessionErr
}

// saveLedgerOnStop writes the cursor while keeping the processed counter
func (b *Bot) saveLedgerOnStop() error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	st, err := b.ledger.Load(ctx)
	if err != nil {
		return err
	}
	cursor := max(b.cursor, st.LastUpdateID)
	now := time.Now().UTC()
	return b.ledger.Save(ctx, ledger.Partial{
		LastUpdateID:           &cursor,
		LastActivity:           &st.LastActivity,
		LastMessageTime:        &now,
		TotalMessagesProcessed: &st.TotalMessagesProcessed,
	})
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleMessage processes plain chat messages: numbers and the missing query
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	if m.Author.Bot {
		slog.Debug("Ignoring message from bot", "user", m.Author.ID)
		return
	}
	if b.config.DiscordChannelID != "" && m.ChannelID != b.config.DiscordChannelID {
		return
	}

	text := strings.TrimSpace(m.Content)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	updateID, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		slog.Warn("Message id is not a snowflake", "id", m.ID)
		updateID = 0
	}

	slog.Debug("Received message", "user", m.Author.ID, "username", m.Author.Username, "channel", m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if reply, ok := b.processMessage(ctx, updateID, m.Author.ID, text, m.Timestamp); ok {
		b.reply(s, m, reply)
	}
}

// processMessage runs one message through the game and the ledger and
// returns the reply. Messages at or behind the cursor are dropped with ok
// false. The ledger and cursor only advance once the game has handled the
// message.
func (b *Bot) processMessage(ctx context.Context, updateID int64, authorID, text string, sentAt time.Time) (reply string, ok bool) {
	if !isNewUpdate(updateID, b.cursor) {
		slog.Debug("Skipping already processed message", "id", updateID, "cursor", b.cursor)
		return "", false
	}

	resp, err := b.service.Handle(ctx, text, authorID, false)
	if err != nil {
		slog.Error("Failed to process message", "error", err)
		return "An error occurred while processing your message", true
	}

	if updateID > 0 {
		st, err := b.ledger.Record(ctx, updateID, sentAt)
		if err != nil {
			slog.Error("Failed to record activity", "error", err)
		} else {
			b.cursor = st.LastUpdateID
			metrics.RecordMessage()
		}
	}

	return resp.Text, true
}

// isNewUpdate reports whether an event is past the cursor. Events without an
// id cannot be deduplicated and are always processed.
func isNewUpdate(updateID, cursor int64) bool {
	return updateID == 0 || updateID > cursor
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		slog.Error("Failed to send message", "channel", m.ChannelID, "error", err)
	}
}
