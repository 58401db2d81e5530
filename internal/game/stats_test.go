package game

import (
	"context"
	"errors"
	"testing"
)

type fakeResolver struct {
	players map[string]*PlayerInfo
	calls   []string
}

func (f *fakeResolver) ResolvePlayer(_ context.Context, ownerID string) (*PlayerInfo, error) {
	f.calls = append(f.calls, ownerID)
	p, ok := f.players[ownerID]
	if !ok {
		return nil, errors.New("unknown user")
	}
	return p, nil
}

func TestOwnerCounts(t *testing.T) {
	r := newTestRegistry()
	r.Claim("123", "user123")
	r.Claim("456", "user123")
	r.Claim("789", "user456")

	counts := r.OwnerCounts()
	if len(counts) != 2 {
		t.Fatalf("len(OwnerCounts()) = %d, want 2", len(counts))
	}
	if counts[0].OwnerID != "user123" || counts[0].Count != 2 {
		t.Fatalf("counts[0] = %+v", counts[0])
	}
	if got := counts[0].Slots; len(got) != 2 || got[0] != "123" || got[1] != "456" {
		t.Fatalf("counts[0].Slots = %v", got)
	}
	if counts[1].OwnerID != "user456" || counts[1].Count != 1 {
		t.Fatalf("counts[1] = %+v", counts[1])
	}
}

func TestOwnerCountsTieBreak(t *testing.T) {
	r := newTestRegistry()
	// b claims first, so b wins the tie regardless of key or id order
	r.Claim("900", "b")
	r.Claim("100", "a")
	r.Claim("200", "c")
	r.Claim("300", "c")

	counts := r.OwnerCounts()
	order := []string{counts[0].OwnerID, counts[1].OwnerID, counts[2].OwnerID}
	want := []string{"c", "b", "a"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestOwnerCountsEmpty(t *testing.T) {
	if got := newTestRegistry().OwnerCounts(); len(got) != 0 {
		t.Fatalf("OwnerCounts() on empty = %v", got)
	}
}

func TestWithDisplayNames(t *testing.T) {
	r := newTestRegistry()
	r.Claim("1", "42")
	r.Claim("2", "42")
	r.Claim("3", "43")
	r.Claim("4", "44")
	r.Claim("5", "45")
	r.Claim("6", "46")

	resolver := &fakeResolver{players: map[string]*PlayerInfo{
		"42": {ID: "42", Username: "alice", DisplayName: "Alice"},
		"44": {ID: "44", Username: "carol"},
		"45": {ID: "45", DisplayName: "Dana"},
		"46": {ID: "46"},
	}}

	entries := WithDisplayNames(context.Background(), r.OwnerCounts(), resolver, 0)
	if len(entries) != 5 {
		t.Fatalf("len(entries) = %d, want 5", len(entries))
	}

	if e := entries[0]; e.OwnerID != "42" || e.Count != 2 || e.Username != "alice" || e.DisplayName != "Alice" {
		t.Errorf("entries[0] = %+v", e)
	}
	// 43 cannot be resolved and falls back without aborting the others
	if e := entries[1]; e.OwnerID != "43" || e.Username != "User 43" || e.DisplayName != "User 43" {
		t.Errorf("entries[1] = %+v", e)
	}
	if e := entries[2]; e.Username != "carol" || e.DisplayName != "carol" {
		t.Errorf("entries[2] = %+v", e)
	}
	if e := entries[3]; e.OwnerID != "45" || e.Username != "Dana" || e.DisplayName != "Dana" {
		t.Errorf("entries[3] = %+v", e)
	}
	// A profile with neither name gets the same labels as a failed lookup
	if e := entries[4]; e.OwnerID != "46" || e.Username != "User 46" || e.DisplayName != "User 46" {
		t.Errorf("entries[4] = %+v", e)
	}
	if len(resolver.calls) != 5 {
		t.Errorf("resolver called %d times, want 5", len(resolver.calls))
	}
}

func TestWithDisplayNamesLimitAndUnknown(t *testing.T) {
	r := newTestRegistry()
	r.Restore(Snapshot{Slots: []Slot{{Key: "001", OwnerID: UnknownOwner}, {Key: "002", OwnerID: UnknownOwner}}})
	r.Claim("3", "x")

	resolver := &fakeResolver{}
	entries := WithDisplayNames(context.Background(), r.OwnerCounts(), resolver, 1)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].OwnerID != UnknownOwner || entries[0].Count != 2 {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	if len(resolver.calls) != 0 {
		t.Fatalf("resolver called for unknown owner: %v", resolver.calls)
	}
}

func TestWithDisplayNamesNilResolver(t *testing.T) {
	r := newTestRegistry()
	r.Claim("1", "7")
	entries := WithDisplayNames(context.Background(), r.OwnerCounts(), nil, 10)
	if len(entries) != 1 || entries[0].DisplayName != "User 7" {
		t.Fatalf("entries = %+v", entries)
	}
}
