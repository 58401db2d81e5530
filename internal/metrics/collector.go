package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/flor3z/autonumber-bot/internal/game"
)

// Collector periodically copies registry totals into gauges
type Collector struct {
	registry *game.Registry
	interval time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCollector creates a collector sampling registry every interval
func NewCollector(registry *game.Registry, interval time.Duration) *Collector {
	return &Collector{
		registry: registry,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Collect samples the registry once
func (c *Collector) Collect() {
	st := c.registry.Stats()
	SlotsClaimed.Set(float64(st.Claimed))
	Players.Set(float64(st.Players))
}

// Start runs the sampling loop until ctx is cancelled or Stop is called
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Initial sample
	c.Collect()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Metrics collector stopped (context cancelled)")
			return
		case <-c.stopChan:
			slog.Debug("Metrics collector stopped")
			return
		case <-ticker.C:
			c.Collect()
		}
	}
}

// Stop signals the loop to exit and waits for it
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
}
