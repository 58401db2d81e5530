package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flor3z/autonumber-bot/internal/game"
	"github.com/tidwall/jsonc"
)

// Format identifies which on-disk shape a game document used
type Format string

const (
	FormatEmpty   Format = "empty"
	FormatCurrent Format = "current" // numbers: [{number, userId, timestamp}]
	FormatLegacy  Format = "legacy"  // numbers: ["001", "002"]
)

// rawGameDocument defers decoding of numbers until the shape is known
type rawGameDocument struct {
	Numbers    json.RawMessage `json:"numbers"`
	Players    []string        `json:"players"`
	LastUpdate string          `json:"lastUpdate"`
}

// DecodeGame parses a stored game document into a snapshot. The current
// record shape is tried first, then the legacy list of keys, whose owners
// become game.UnknownOwner. Comments and trailing commas are tolerated.
func DecodeGame(data []byte) (game.Snapshot, Format, error) {
	var raw rawGameDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return game.Snapshot{}, "", fmt.Errorf("invalid game document: %w", err)
	}

	snap := game.Snapshot{
		Players:    raw.Players,
		LastUpdate: ParseTimestamp(raw.LastUpdate),
	}

	numbers := bytes.TrimSpace(raw.Numbers)
	if len(numbers) == 0 || bytes.Equal(numbers, []byte("null")) {
		return snap, FormatEmpty, nil
	}

	if slots, err := decodeCurrent(numbers); err == nil {
		snap.Slots = slots
		return snap, FormatCurrent, nil
	}

	slots, err := decodeLegacy(numbers, snap.LastUpdate)
	if err != nil {
		return game.Snapshot{}, "", err
	}
	snap.Slots = slots
	return snap, FormatLegacy, nil
}

func decodeCurrent(numbers []byte) ([]game.Slot, error) {
	var records []NumberRecord
	if err := json.Unmarshal(numbers, &records); err != nil {
		return nil, err
	}
	slots := make([]game.Slot, 0, len(records))
	for _, rec := range records {
		if rec.Number == "" {
			return nil, errors.New("record without number")
		}
		owner := rec.UserID
		if owner == "" {
			owner = game.UnknownOwner
		}
		slots = append(slots, game.Slot{
			Key:       rec.Number,
			OwnerID:   owner,
			ClaimedAt: ParseTimestamp(rec.Timestamp),
		})
	}
	return slots, nil
}

func decodeLegacy(numbers []byte, claimedAt time.Time) ([]game.Slot, error) {
	var keys []string
	if err := json.Unmarshal(numbers, &keys); err != nil {
		return nil, fmt.Errorf("numbers is neither a record list nor a key list: %w", err)
	}
	slots := make([]game.Slot, 0, len(keys))
	for _, key := range keys {
		slots = append(slots, game.Slot{
			Key:       key,
			OwnerID:   game.UnknownOwner,
			ClaimedAt: claimedAt,
		})
	}
	return slots, nil
}

// EncodeGame renders a snapshot in the current document shape
func EncodeGame(snap game.Snapshot) ([]byte, error) {
	doc := GameDocument{
		Numbers:    make([]NumberRecord, 0, len(snap.Slots)),
		Players:    snap.Players,
		LastUpdate: FormatTimestamp(snap.LastUpdate),
	}
	if doc.Players == nil {
		doc.Players = []string{}
	}
	for _, s := range snap.Slots {
		doc.Numbers = append(doc.Numbers, NumberRecord{
			Number:    s.Key,
			UserID:    s.OwnerID,
			Timestamp: FormatTimestamp(s.ClaimedAt),
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode game document: %w", err)
	}
	return data, nil
}
