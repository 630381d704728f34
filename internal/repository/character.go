package repository

import (
	"context"

	"github.com/wowlab/guildsim/internal/domain"
)

// Character defines the interface for character persistence
type Character interface {
	Upsert(ctx context.Context, character *domain.Character) error
	UpsertBatch(ctx context.Context, characters []domain.Character) error
	GetByID(ctx context.Context, characterID string) (*domain.Character, error)
	GetByNameRealm(ctx context.Context, region, realm, name string) (*domain.Character, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Character, error)
	UpdateRole(ctx context.Context, characterID string, role domain.CharacterRole) error
	Delete(ctx context.Context, characterID string) error
}
