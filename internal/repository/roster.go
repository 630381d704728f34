package repository

import (
	"context"

	"github.com/wowlab/guildsim/internal/domain"
)

// Roster defines the interface for raid roster persistence
type Roster interface {
	Create(ctx context.Context, roster *domain.Roster) error
	GetByID(ctx context.Context, rosterID string) (*domain.Roster, error)
	ListByGuild(ctx context.Context, guildID string) ([]domain.Roster, error)
	Rename(ctx context.Context, rosterID, name string) error
	Delete(ctx context.Context, rosterID string) error

	RemoveCharacter(ctx context.Context, rosterID, characterID string) error
	UpdateCharacter(ctx context.Context, entry *domain.RosterCharacter) error
	ListCharacters(ctx context.Context, rosterID string) ([]domain.RosterCharacter, error)

	// BeginTx starts a transaction for capacity-checked inserts
	BeginTx(ctx context.Context) (RosterTx, error)
}

// RosterTx defines the interface for roster transactions. Locking the
// roster row, counting and inserting inside one transaction keeps the
// size cap race-free.
type RosterTx interface {
	Tx
	LockRoster(ctx context.Context, rosterID string) (*domain.Roster, error)
	CountCharacters(ctx context.Context, rosterID string) (int, error)
	AddCharacter(ctx context.Context, entry *domain.RosterCharacter) error
}
