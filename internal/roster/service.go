// Package roster manages named raid lineups within a guild.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/repository"
)

// Authorizer answers whether a user may manage rosters in a guild.
type Authorizer interface {
	IsOfficer(ctx context.Context, guildID, userID string) (bool, error)
}

// Service defines the interface for roster operations
type Service interface {
	Create(ctx context.Context, userID, guildID, name string, size int) (*domain.Roster, error)
	Get(ctx context.Context, rosterID string) (*domain.Roster, []domain.RosterCharacter, error)
	ListByGuild(ctx context.Context, guildID string) ([]domain.Roster, error)
	Rename(ctx context.Context, userID, rosterID, name string) error
	Delete(ctx context.Context, userID, rosterID string) error

	AddCharacter(ctx context.Context, userID, rosterID, characterID string, role domain.CharacterRole, status domain.RosterStatus) error
	RemoveCharacter(ctx context.Context, userID, rosterID, characterID string) error
	UpdateCharacter(ctx context.Context, userID string, entry *domain.RosterCharacter) error
}

type service struct {
	rosters repository.Roster
	auth    Authorizer
	bus     event.Bus
}

// NewService creates a new roster service
func NewService(rosters repository.Roster, auth Authorizer, bus event.Bus) Service {
	return &service{rosters: rosters, auth: auth, bus: bus}
}

func (s *service) Create(ctx context.Context, userID, guildID, name string, size int) (*domain.Roster, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: roster name is required", domain.ErrInvalidInput)
	}
	if size < domain.RosterMinSize || size > domain.RosterMaxSize {
		return nil, fmt.Errorf("%w: roster size must be between %d and %d",
			domain.ErrInvalidInput, domain.RosterMinSize, domain.RosterMaxSize)
	}
	if err := s.requireOfficer(ctx, guildID, userID); err != nil {
		return nil, err
	}

	roster := &domain.Roster{
		GuildID:   guildID,
		Name:      name,
		Size:      size,
		CreatedBy: userID,
	}
	if err := s.rosters.Create(ctx, roster); err != nil {
		return nil, err
	}

	s.publishUpdate(ctx, roster, 0)
	logger.FromContext(ctx).Info("roster created",
		"roster_id", roster.ID,
		"guild_id", guildID,
		"size", size)
	return roster, nil
}

func (s *service) Get(ctx context.Context, rosterID string) (*domain.Roster, []domain.RosterCharacter, error) {
	roster, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.rosters.ListCharacters(ctx, rosterID)
	if err != nil {
		return nil, nil, err
	}
	return roster, entries, nil
}

func (s *service) ListByGuild(ctx context.Context, guildID string) ([]domain.Roster, error) {
	return s.rosters.ListByGuild(ctx, guildID)
}

func (s *service) Rename(ctx context.Context, userID, rosterID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: roster name is required", domain.ErrInvalidInput)
	}
	roster, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return err
	}
	if err := s.requireOfficer(ctx, roster.GuildID, userID); err != nil {
		return err
	}
	return s.rosters.Rename(ctx, rosterID, name)
}

func (s *service) Delete(ctx context.Context, userID, rosterID string) error {
	roster, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return err
	}
	if err := s.requireOfficer(ctx, roster.GuildID, userID); err != nil {
		return err
	}
	return s.rosters.Delete(ctx, rosterID)
}

func (s *service) AddCharacter(ctx context.Context, userID, rosterID, characterID string, role domain.CharacterRole, status domain.RosterStatus) error {
	if !domain.ValidRoles[role] {
		return fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, role)
	}
	if status == "" {
		status = domain.RosterStatusActive
	}
	if status != domain.RosterStatusActive && status != domain.RosterStatusBench {
		return fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, status)
	}

	roster, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return err
	}
	if err := s.requireOfficer(ctx, roster.GuildID, userID); err != nil {
		return err
	}

	tx, err := s.rosters.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	locked, err := tx.LockRoster(ctx, rosterID)
	if err != nil {
		return err
	}
	count, err := tx.CountCharacters(ctx, rosterID)
	if err != nil {
		return err
	}
	if count >= locked.Size {
		return fmt.Errorf("%w: roster holds %d of %d", domain.ErrRosterFull, count, locked.Size)
	}

	entry := &domain.RosterCharacter{
		RosterID:    rosterID,
		CharacterID: characterID,
		Role:        role,
		Status:      status,
	}
	if err := tx.AddCharacter(ctx, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.publishUpdate(ctx, roster, count+1)
	return nil
}

func (s *service) RemoveCharacter(ctx context.Context, userID, rosterID, characterID string) error {
	roster, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return err
	}
	if err := s.requireOfficer(ctx, roster.GuildID, userID); err != nil {
		return err
	}
	if err := s.rosters.RemoveCharacter(ctx, rosterID, characterID); err != nil {
		return err
	}

	entries, err := s.rosters.ListCharacters(ctx, rosterID)
	if err != nil {
		return err
	}
	s.publishUpdate(ctx, roster, len(entries))
	return nil
}

func (s *service) UpdateCharacter(ctx context.Context, userID string, entry *domain.RosterCharacter) error {
	if !domain.ValidRoles[entry.Role] {
		return fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, entry.Role)
	}
	roster, err := s.rosters.GetByID(ctx, entry.RosterID)
	if err != nil {
		return err
	}
	if err := s.requireOfficer(ctx, roster.GuildID, userID); err != nil {
		return err
	}
	return s.rosters.UpdateCharacter(ctx, entry)
}

func (s *service) requireOfficer(ctx context.Context, guildID, userID string) error {
	officer, err := s.auth.IsOfficer(ctx, guildID, userID)
	if err != nil {
		return err
	}
	if !officer {
		return fmt.Errorf("%w: roster management requires officer rank", domain.ErrNotAuthorized)
	}
	return nil
}

func (s *service) publishUpdate(ctx context.Context, roster *domain.Roster, size int) {
	if err := s.bus.Publish(ctx, event.NewRosterUpdatedEvent(roster.ID, roster.GuildID, size)); err != nil {
		logger.FromContext(ctx).Warn("failed to publish roster update event", "error", err)
	}
}
