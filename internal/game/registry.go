package game

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Registry records which slots have been claimed and by whom
type Registry struct {
	mu         sync.RWMutex
	maxSlots   int
	slots      map[string]Slot
	players    map[string]struct{}
	lastUpdate time.Time
	now        func() time.Time
}

// Option configures a Registry
type Option func(*Registry)

// WithClock overrides the time source used for claim and update timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates an empty registry bounded to [1, maxSlots].
// A non-positive or oversized bound falls back to DefaultMaxSlots.
func NewRegistry(maxSlots int, opts ...Option) *Registry {
	if maxSlots <= 0 || maxSlots > DefaultMaxSlots {
		maxSlots = DefaultMaxSlots
	}
	r := &Registry{
		maxSlots: maxSlots,
		slots:    make(map[string]Slot),
		players:  make(map[string]struct{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastUpdate = r.now().UTC()
	return r
}

// MaxSlots returns the configured slot bound
func (r *Registry) MaxSlots() int {
	return r.maxSlots
}

// IsValidSlot reports whether input is a well-formed in-range slot token
func (r *Registry) IsValidSlot(input string) bool {
	_, ok := parseSlot(input, r.maxSlots)
	return ok
}

// Normalize returns the zero-padded key for input
func (r *Registry) Normalize(input string) (string, bool) {
	n, ok := parseSlot(input, r.maxSlots)
	if !ok {
		return "", false
	}
	return FormatKey(n), true
}

// HasSlot reports whether the slot named by input is claimed
func (r *Registry) HasSlot(input string) bool {
	key, ok := r.Normalize(input)
	if !ok {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.slots[key]
	return exists
}

// Slot returns the claim record for input, if any
func (r *Registry) Slot(input string) (Slot, bool) {
	key, ok := r.Normalize(input)
	if !ok {
		return Slot{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, exists := r.slots[key]
	return s, exists
}

// Claim associates the slot with ownerID if nobody holds it yet. An existing
// claim is never overwritten. Claim does not persist.
func (r *Registry) Claim(input, ownerID string) ClaimResult {
	key, ok := r.Normalize(input)
	if !ok {
		return ClaimResult{Outcome: ClaimInvalidFormat}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slots[key]; exists {
		return ClaimResult{Outcome: ClaimAlreadyClaimed, Key: key, Remaining: r.remainingLocked()}
	}

	now := r.now().UTC()
	r.slots[key] = Slot{Key: key, OwnerID: ownerID, ClaimedAt: now}
	r.touchLocked(now)
	return ClaimResult{Outcome: ClaimAdded, Key: key, Remaining: r.remainingLocked()}
}

// Release removes the slot if ownerID is the original claimant.
// Any integer token is accepted; out-of-range values are simply not found.
func (r *Registry) Release(input, ownerID string) ReleaseResult {
	token := strings.TrimSpace(input)
	if token == "" || strings.TrimLeft(token, "0123456789") != "" {
		return ReleaseResult{Outcome: ReleaseInvalidFormat}
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return ReleaseResult{Outcome: ReleaseInvalidFormat}
	}
	key := FormatKey(n)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.slots[key]
	if !exists {
		return ReleaseResult{Outcome: ReleaseNotFound, Key: key}
	}
	if entry.OwnerID != ownerID {
		return ReleaseResult{Outcome: ReleaseForbidden, Key: key}
	}

	delete(r.slots, key)
	r.touchLocked(r.now().UTC())
	return ReleaseResult{Outcome: Released, Key: key, Remaining: r.remainingLocked()}
}

// RecordPlayer adds ownerID to the set of players. Idempotent.
func (r *Registry) RecordPlayer(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[ownerID] = struct{}{}
}

// HasPlayer reports whether ownerID ever submitted a claim
func (r *Registry) HasPlayer(ownerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.players[ownerID]
	return ok
}

// Players returns the player ids in ascending order
func (r *Registry) Players() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.players))
}

// Count returns the number of claimed slots
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// RemainingCount returns how many slots are still unclaimed
func (r *Registry) RemainingCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.remainingLocked()
}

// IsComplete reports whether every slot has been claimed
func (r *Registry) IsComplete() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots) >= r.maxSlots
}

// Missing yields unclaimed keys in ascending order, starting from 1 on every
// iteration. The read lock is held only while checking each key.
func (r *Registry) Missing() iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := 1; n <= r.maxSlots; n++ {
			key := FormatKey(n)
			r.mu.RLock()
			_, claimed := r.slots[key]
			r.mu.RUnlock()
			if claimed {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// FirstMissing returns up to k unclaimed keys in ascending order
func (r *Registry) FirstMissing(k int) []string {
	if k <= 0 {
		return nil
	}
	missing := make([]string, 0, k)
	for key := range r.Missing() {
		missing = append(missing, key)
		if len(missing) >= k {
			break
		}
	}
	return missing
}

// Reset clears all claims and players. The caller persists.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.slots)
	clear(r.players)
	r.lastUpdate = r.now().UTC()
}

// LastUpdate returns the time of the last mutation
func (r *Registry) LastUpdate() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastUpdate
}

// Slots returns every claim ordered by key
func (r *Registry) Slots() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slotsLocked()
}

// Summary contains the headline numbers of a game
type Summary struct {
	Claimed    int
	Remaining  int
	Players    int
	MaxSlots   int
	LastUpdate time.Time
}

// Stats returns the current summary
func (r *Registry) Stats() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Summary{
		Claimed:    len(r.slots),
		Remaining:  r.remainingLocked(),
		Players:    len(r.players),
		MaxSlots:   r.maxSlots,
		LastUpdate: r.lastUpdate,
	}
}

// Snapshot is a point-in-time copy of the registry used for persistence
type Snapshot struct {
	Slots      []Slot
	Players    []string
	LastUpdate time.Time
}

// Snapshot copies the registry state
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Slots:      r.slotsLocked(),
		Players:    slices.Sorted(maps.Keys(r.players)),
		LastUpdate: r.lastUpdate,
	}
}

// Restore replaces the registry contents with snap. Slots that are not valid
// under the current bound are skipped and counted in the return value; the
// first record wins when keys repeat. Slots without a claim time take the
// snapshot's LastUpdate.
func (r *Registry) Restore(snap Snapshot) (skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.slots)
	clear(r.players)
	if snap.LastUpdate.IsZero() {
		r.lastUpdate = r.now().UTC()
	} else {
		r.lastUpdate = snap.LastUpdate.UTC()
	}
	for _, s := range snap.Slots {
		n, ok := parseSlot(s.Key, r.maxSlots)
		if !ok {
			skipped++
			continue
		}
		key := FormatKey(n)
		if _, dup := r.slots[key]; dup {
			skipped++
			continue
		}
		s.Key = key
		if s.ClaimedAt.IsZero() {
			s.ClaimedAt = r.lastUpdate
		}
		r.slots[key] = s
	}
	for _, p := range snap.Players {
		r.players[p] = struct{}{}
	}
	return skipped
}

func (r *Registry) remainingLocked() int {
	return r.maxSlots - len(r.slots)
}

// touchLocked advances lastUpdate, never moving it backwards
func (r *Registry) touchLocked(now time.Time) {
	if now.After(r.lastUpdate) {
		r.lastUpdate = now
	}
}

func (r *Registry) slotsLocked() []Slot {
	out := make([]Slot, 0, len(r.slots))
	for _, key := range slices.Sorted(maps.Keys(r.slots)) {
		out = append(out, r.slots[key])
	}
	return out
}
