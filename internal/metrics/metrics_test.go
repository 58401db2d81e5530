package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/flor3z/autonumber-bot/internal/game"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserver(t *testing.T) {
	// Counters are global, so assert on deltas
	added := testutil.ToFloat64(ClaimsTotal.WithLabelValues("added"))
	forbidden := testutil.ToFloat64(ReleasesTotal.WithLabelValues("forbidden"))

	var o Observer
	o.ObserveClaim(game.ClaimAdded)
	o.ObserveClaim(game.ClaimAdded)
	o.ObserveRelease(game.ReleaseForbidden)

	if got := testutil.ToFloat64(ClaimsTotal.WithLabelValues("added")) - added; got != 2 {
		t.Errorf("added delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(ReleasesTotal.WithLabelValues("forbidden")) - forbidden; got != 1 {
		t.Errorf("forbidden delta = %v, want 1", got)
	}
}

func TestRecordMessage(t *testing.T) {
	before := testutil.ToFloat64(MessagesTotal)
	RecordMessage()
	if got := testutil.ToFloat64(MessagesTotal) - before; got != 1 {
		t.Fatalf("messages delta = %v, want 1", got)
	}
}

func TestCollector(t *testing.T) {
	reg := game.NewRegistry(game.DefaultMaxSlots)
	reg.Claim("1", "a")
	reg.Claim("2", "b")
	reg.RecordPlayer("a")

	c := NewCollector(reg, time.Hour)
	c.Collect()

	if got := testutil.ToFloat64(SlotsClaimed); got != 2 {
		t.Errorf("slots_claimed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(Players); got != 1 {
		t.Errorf("players = %v, want 1", got)
	}
}

func TestCollectorStop(t *testing.T) {
	c := NewCollector(game.NewRegistry(0), time.Millisecond)
	done := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	c.Stop()
	c.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}
