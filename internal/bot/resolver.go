package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/flor3z/autonumber-bot/internal/game"
)

// UserResolver resolves owner ids to Discord user names
type UserResolver struct {
	session *discordgo.Session
}

// NewUserResolver creates a resolver using session for lookups
func NewUserResolver(session *discordgo.Session) *UserResolver {
	return &UserResolver{session: session}
}

// ResolvePlayer implements game.NameResolver
func (r *UserResolver) ResolvePlayer(ctx context.Context, ownerID string) (*game.PlayerInfo, error) {
	u, err := r.session.User(ownerID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", ownerID, err)
	}
	return playerFromUser(u), nil
}

func playerFromUser(u *discordgo.User) *game.PlayerInfo {
	display := u.GlobalName
	if display == "" {
		display = u.Username
	}
	return &game.PlayerInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: display,
	}
}
