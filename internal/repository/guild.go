package repository

import (
	"context"

	"github.com/wowlab/guildsim/internal/domain"
)

// Guild defines the interface for guild persistence
type Guild interface {
	Upsert(ctx context.Context, guild *domain.Guild) error
	GetByID(ctx context.Context, guildID string) (*domain.Guild, error)
	GetBySlug(ctx context.Context, region, realm, slug string) (*domain.Guild, error)
	SetRosterCreationRank(ctx context.Context, guildID string, rank int) error

	// Membership, synced from the game API
	ReplaceMembers(ctx context.Context, guildID string, members []domain.Character) error
	ListMembers(ctx context.Context, guildID string) ([]domain.Character, error)
	// BestRankForUser returns the numerically lowest guild rank held by any
	// of the user's characters in the guild.
	BestRankForUser(ctx context.Context, guildID, userID string) (int, error)
}
