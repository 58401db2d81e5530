package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flor3z/autonumber-bot/internal/game"
)

// Gateway loads and saves the claim registry through a Blob
type Gateway struct {
	blob   Blob
	logger *slog.Logger
}

// NewGateway creates a gateway over blob
func NewGateway(blob Blob, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{blob: blob, logger: logger}
}

// Initialize prepares the backing store and loads it into reg. A missing
// document leaves reg empty. An unreadable or corrupt document is logged,
// reg is reset, and the empty state is written back immediately.
func (g *Gateway) Initialize(ctx context.Context, reg *game.Registry) error {
	if p, ok := g.blob.(Preparer); ok {
		if err := p.Prepare(); err != nil {
			return err
		}
	}

	err := g.load(ctx, reg)
	if err == nil || errors.Is(err, ErrNotFound) {
		return nil
	}

	g.logger.Warn("Could not load existing data, starting fresh", "error", err)
	reg.Reset()
	if err := g.Save(ctx, reg); err != nil {
		return fmt.Errorf("failed to save fresh state: %w", err)
	}
	return nil
}

func (g *Gateway) load(ctx context.Context, reg *game.Registry) error {
	data, err := g.blob.Read(ctx)
	if err != nil {
		return err
	}

	snap, format, err := DecodeGame(data)
	if err != nil {
		return err
	}

	skipped := reg.Restore(snap)
	if skipped > 0 {
		g.logger.Warn("Dropped invalid slots while loading", "count", skipped, "maxSlots", reg.MaxSlots())
	}
	g.logger.Info("Loaded game data", "format", format, "slots", reg.Count(), "players", len(snap.Players))
	return nil
}

// Save writes the whole registry, replacing the stored document
func (g *Gateway) Save(ctx context.Context, reg *game.Registry) error {
	data, err := EncodeGame(reg.Snapshot())
	if err != nil {
		return err
	}
	if err := g.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to save game data: %w", err)
	}
	return nil
}
