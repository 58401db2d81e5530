package game

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"
)

// OwnerCount aggregates the slots held by one owner
type OwnerCount struct {
	OwnerID    string
	Count      int
	Slots      []string // ascending keys
	FirstClaim time.Time
}

// LeaderboardEntry is an OwnerCount enriched with display names
type LeaderboardEntry struct {
	OwnerID     string
	Count       int
	Username    string
	DisplayName string
}

// OwnerCounts groups claims by owner, most slots first. Equal counts are
// ordered by earliest first claim, then by owner id.
func (r *Registry) OwnerCounts() []OwnerCount {
	byOwner := make(map[string]*OwnerCount)
	for _, s := range r.Slots() {
		oc, ok := byOwner[s.OwnerID]
		if !ok {
			oc = &OwnerCount{OwnerID: s.OwnerID, FirstClaim: s.ClaimedAt}
			byOwner[s.OwnerID] = oc
		}
		oc.Count++
		oc.Slots = append(oc.Slots, s.Key)
		if s.ClaimedAt.Before(oc.FirstClaim) {
			oc.FirstClaim = s.ClaimedAt
		}
	}

	counts := make([]OwnerCount, 0, len(byOwner))
	for _, oc := range byOwner {
		counts = append(counts, *oc)
	}
	slices.SortFunc(counts, func(a, b OwnerCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := a.FirstClaim.Compare(b.FirstClaim); c != 0 {
			return c
		}
		return cmp.Compare(a.OwnerID, b.OwnerID)
	})
	return counts
}

// FallbackPlayer is the identity shown when an owner cannot be resolved
func FallbackPlayer(ownerID string) PlayerInfo {
	return PlayerInfo{
		ID:          ownerID,
		Username:    "User " + ownerID,
		DisplayName: "User " + ownerID,
	}
}

// WithDisplayNames resolves names for the first limit entries of counts
// (all of them when limit <= 0). A failed lookup degrades to FallbackPlayer
// for that owner only.
func WithDisplayNames(ctx context.Context, counts []OwnerCount, resolver NameResolver, limit int) []LeaderboardEntry {
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(counts))
	for _, oc := range counts {
		info := FallbackPlayer(oc.OwnerID)
		if resolver != nil && oc.OwnerID != UnknownOwner {
			resolved, err := resolver.ResolvePlayer(ctx, oc.OwnerID)
			if err != nil || resolved == nil {
				slog.Warn("Failed to resolve player", "ownerID", oc.OwnerID, "error", err)
			} else {
				info = *resolved
				switch {
				case info.Username == "" && info.DisplayName == "":
					info = FallbackPlayer(oc.OwnerID)
				case info.Username == "":
					info.Username = info.DisplayName
				case info.DisplayName == "":
					info.DisplayName = info.Username
				}
			}
		}
		entries = append(entries, LeaderboardEntry{
			OwnerID:     oc.OwnerID,
			Count:       oc.Count,
			Username:    info.Username,
			DisplayName: info.DisplayName,
		})
	}
	return entries
}
