// Package ledger tracks transport delivery progress so a restarted bot can
// resume from where it stopped.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flor3z/autonumber-bot/internal/storage"
	"github.com/tidwall/jsonc"
)

// State is the ledger as seen by callers
type State struct {
	LastUpdateID           int64
	LastActivity           time.Time
	LastMessageTime        time.Time
	TotalMessagesProcessed int64
	Uptime                 time.Duration // as written by the process that saved it
}

// Partial holds the fields a Save call supplies; nil fields take defaults
type Partial struct {
	LastUpdateID           *int64
	LastActivity           *time.Time
	LastMessageTime        *time.Time
	TotalMessagesProcessed *int64
}

// Ledger reads and writes State through a Blob. It assumes a single
// sequential caller; Record is an unlocked read-modify-write.
type Ledger struct {
	blob    storage.Blob
	now     func() time.Time
	started time.Time
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates a ledger over blob
func New(blob storage.Blob, opts ...Option) *Ledger {
	l := &Ledger{blob: blob, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.started = l.now()
	return l
}

// Prepare sets up the backing store if it needs it
func (l *Ledger) Prepare() error {
	if p, ok := l.blob.(storage.Preparer); ok {
		return p.Prepare()
	}
	return nil
}

// Load returns the stored state, or a fresh state when nothing is stored.
// Comments and trailing commas are tolerated. Any other failure is returned.
func (l *Ledger) Load(ctx context.Context) (State, error) {
	data, err := l.blob.Read(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return l.fresh(), nil
		}
		return State{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	var doc storage.LedgerDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return State{}, fmt.Errorf("invalid ledger document: %w", err)
	}

	now := l.now().UTC()
	st := State{
		LastUpdateID:           max(doc.LastUpdateID, 0),
		LastActivity:           storage.ParseTimestamp(doc.LastActivity),
		LastMessageTime:        storage.ParseTimestamp(doc.LastMessageTime),
		TotalMessagesProcessed: max(doc.TotalMessagesProcessed, 0),
		Uptime:                 time.Duration(doc.Uptime * float64(time.Second)),
	}
	if st.LastActivity.IsZero() {
		st.LastActivity = now
	}
	if st.LastMessageTime.IsZero() {
		st.LastMessageTime = now
	}
	return st, nil
}

// Record notes one processed event
func (l *Ledger) Record(ctx context.Context, updateID int64, messageTime time.Time) (State, error) {
	st, err := l.Load(ctx)
	if err != nil {
		return State{}, err
	}

	total := st.TotalMessagesProcessed + 1
	activity := l.now().UTC()
	messageTime = messageTime.UTC()
	if err := l.Save(ctx, Partial{
		LastUpdateID:           &updateID,
		LastActivity:           &activity,
		LastMessageTime:        &messageTime,
		TotalMessagesProcessed: &total,
	}); err != nil {
		return State{}, err
	}

	return State{
		LastUpdateID:           updateID,
		LastActivity:           activity,
		LastMessageTime:        messageTime,
		TotalMessagesProcessed: total,
		Uptime:                 l.Uptime(),
	}, nil
}

// Save merges p over defaults and writes the result in one call
func (l *Ledger) Save(ctx context.Context, p Partial) error {
	now := l.now().UTC()
	doc := storage.LedgerDocument{
		LastActivity:    storage.FormatTimestamp(now),
		LastMessageTime: storage.FormatTimestamp(now),
		Uptime:          l.Uptime().Seconds(),
	}
	if p.LastUpdateID != nil {
		doc.LastUpdateID = *p.LastUpdateID
	}
	if p.TotalMessagesProcessed != nil {
		doc.TotalMessagesProcessed = *p.TotalMessagesProcessed
	}
	if p.LastActivity != nil {
		doc.LastActivity = storage.FormatTimestamp(*p.LastActivity)
	}
	if p.LastMessageTime != nil {
		doc.LastMessageTime = storage.FormatTimestamp(*p.LastMessageTime)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := l.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// LastUpdateID returns the stored delivery cursor
func (l *Ledger) LastUpdateID(ctx context.Context) (int64, error) {
	st, err := l.Load(ctx)
	if err != nil {
		return 0, err
	}
	return st.LastUpdateID, nil
}

// LastActivity returns the time of the last user-visible event
func (l *Ledger) LastActivity(ctx context.Context) (time.Time, error) {
	st, err := l.Load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return st.LastMessageTime, nil
}

// Uptime returns how long this ledger has existed in the current process
func (l *Ledger) Uptime() time.Duration {
	return l.now().Sub(l.started)
}

func (l *Ledger) fresh() State {
	now := l.now().UTC()
	return State{
		LastActivity:    now,
		LastMessageTime: now,
	}
}
