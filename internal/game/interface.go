package game

import "context"

// PlayerInfo contains the display identity of a player as known to the transport
type PlayerInfo struct {
	ID          string // Opaque owner id stored on slots
	Username    string // Handle, e.g. "faker"
	DisplayName string // Human-readable display name
}

// NameResolver looks up display identities for owner ids.
// Implementations are owned by the transport layer.
type NameResolver interface {
	ResolvePlayer(ctx context.Context, ownerID string) (*PlayerInfo, error)
}

// Saver persists the registry after a mutation
type Saver interface {
	Save(ctx context.Context, r *Registry) error
}

// Authorizer decides whether a user may run privileged operations
type Authorizer func(userID string) bool
