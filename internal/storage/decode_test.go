package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/flor3z/autonumber-bot/internal/game"
)

func TestDecodeGameLegacy(t *testing.T) {
	data := []byte(`{"numbers":["001","002"],"players":["p1"],"lastUpdate":"2023-01-01T00:00:00.000Z"}`)

	snap, format, err := DecodeGame(data)
	if err != nil {
		t.Fatalf("DecodeGame: %v", err)
	}
	if format != FormatLegacy {
		t.Fatalf("format = %q, want legacy", format)
	}
	if len(snap.Slots) != 2 {
		t.Fatalf("slots = %+v", snap.Slots)
	}
	for _, s := range snap.Slots {
		if s.OwnerID != game.UnknownOwner {
			t.Errorf("slot %s owner = %q, want unknown", s.Key, s.OwnerID)
		}
	}
	if len(snap.Players) != 1 || snap.Players[0] != "p1" {
		t.Fatalf("players = %v", snap.Players)
	}
	if want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC); !snap.LastUpdate.Equal(want) {
		t.Fatalf("LastUpdate = %v, want %v", snap.LastUpdate, want)
	}
}

func TestDecodeGameCurrent(t *testing.T) {
	data := []byte(`{
		"numbers": [
			{"number": "001", "userId": "user1", "timestamp": "2023-01-01T00:00:00.000Z"},
			{"number": "002", "userId": "user2", "timestamp": "2023-01-02T00:00:00.000Z"}
		],
		"players": ["player1"],
		"lastUpdate": "2023-01-02T00:00:00.000Z"
	}`)

	snap, format, err := DecodeGame(data)
	if err != nil {
		t.Fatalf("DecodeGame: %v", err)
	}
	if format != FormatCurrent {
		t.Fatalf("format = %q, want current", format)
	}
	if snap.Slots[0].OwnerID != "user1" || snap.Slots[1].OwnerID != "user2" {
		t.Fatalf("slots = %+v", snap.Slots)
	}
	if want := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC); !snap.Slots[1].ClaimedAt.Equal(want) {
		t.Fatalf("ClaimedAt = %v", snap.Slots[1].ClaimedAt)
	}
}

func TestDecodeGameTolerance(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		slots  int
	}{
		{"empty object", `{}`, FormatEmpty, 0},
		{"null numbers", `{"numbers": null}`, FormatEmpty, 0},
		{"empty list", `{"numbers": []}`, FormatCurrent, 0},
		{"comments and trailing comma", "{\n// hand edited\n\"numbers\": [\"005\",],\n}", FormatLegacy, 1},
		{"missing user id", `{"numbers":[{"number":"9"}]}`, FormatCurrent, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, format, err := DecodeGame([]byte(tt.data))
			if err != nil {
				t.Fatalf("DecodeGame: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if len(snap.Slots) != tt.slots {
				t.Errorf("slots = %d, want %d", len(snap.Slots), tt.slots)
			}
		})
	}
}

func TestDecodeGameErrors(t *testing.T) {
	for _, data := range []string{
		`not json`,
		`{"numbers": 42}`,
		`{"numbers": [1, 2]}`,
		`{"numbers": "001"}`,
	} {
		if _, _, err := DecodeGame([]byte(data)); err == nil {
			t.Errorf("DecodeGame(%q) succeeded, want error", data)
		}
	}
}

func TestEncodeGame(t *testing.T) {
	claimed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	data, err := EncodeGame(game.Snapshot{
		Slots:      []game.Slot{{Key: "123", OwnerID: "user123", ClaimedAt: claimed}},
		LastUpdate: claimed,
	})
	if err != nil {
		t.Fatalf("EncodeGame: %v", err)
	}

	var doc GameDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Numbers) != 1 {
		t.Fatalf("numbers = %+v", doc.Numbers)
	}
	rec := doc.Numbers[0]
	if rec.Number != "123" || rec.UserID != "user123" || rec.Timestamp != "2024-05-06T07:08:09.000Z" {
		t.Fatalf("record = %+v", rec)
	}
	if doc.Players == nil {
		t.Fatal("players encoded as null")
	}
}
