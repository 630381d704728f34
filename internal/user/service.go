// Package user manages Battle.net accounts and the characters attached to
// them.
package user

import (
	"context"
	"fmt"

	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/repository"
)

// BnetAPI is the part of the Battle.net client the service needs.
type BnetAPI interface {
	AccountCharacters(ctx context.Context, userToken string) ([]blizzard.AccountCharacter, error)
}

// Service defines the interface for account operations
type Service interface {
	// LoginFromBnet upserts the account after a successful OAuth login
	LoginFromBnet(ctx context.Context, info *blizzard.UserInfo, region, locale string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error

	// SyncCharacters refreshes the account's character list from the game
	// API using the user's own OAuth token
	SyncCharacters(ctx context.Context, userID, userToken string) ([]domain.Character, error)
	Characters(ctx context.Context, userID string) ([]domain.Character, error)
	SetCharacterRole(ctx context.Context, userID, characterID string, role domain.CharacterRole) error
}

type service struct {
	users      repository.User
	characters repository.Character
	api        BnetAPI
	region     string
}

// NewService creates a new account service
func NewService(users repository.User, characters repository.Character, api BnetAPI, region string) Service {
	return &service{
		users:      users,
		characters: characters,
		api:        api,
		region:     region,
	}
}

func (s *service) LoginFromBnet(ctx context.Context, info *blizzard.UserInfo, region, locale string) (*domain.User, error) {
	if info == nil || info.ID == 0 {
		return nil, fmt.Errorf("%w: missing account info", domain.ErrUnauthenticated)
	}

	user := &domain.User{
		BnetID:    info.ID,
		BattleTag: info.BattleTag,
		Region:    region,
		Locale:    blizzard.NormalizeLocale(locale),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user logged in",
		"user_id", user.ID,
		"battletag", user.BattleTag,
		"region", user.Region)
	return user, nil
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("user account deleted", "user_id", userID)
	return nil
}

func (s *service) SyncCharacters(ctx context.Context, userID, userToken string) ([]domain.Character, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fetched, err := s.api.AccountCharacters(ctx, userToken)
	if err != nil {
		return nil, err
	}

	characters := make([]domain.Character, 0, len(fetched))
	for _, ch := range fetched {
		characters = append(characters, domain.Character{
			UserID: user.ID,
			Name:   ch.Name,
			Realm:  ch.RealmSlug,
			Region: user.Region,
			Class:  ch.Class,
			Level:  ch.Level,
		})
	}

	if err := s.characters.UpsertBatch(ctx, characters); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("characters synced",
		"user_id", user.ID,
		"count", len(characters))
	return characters, nil
}

func (s *service) Characters(ctx context.Context, userID string) ([]domain.Character, error) {
	return s.characters.ListByUser(ctx, userID)
}

func (s *service) SetCharacterRole(ctx context.Context, userID, characterID string, role domain.CharacterRole) error {
	if !domain.ValidRoles[role] {
		return fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, role)
	}

	character, err := s.characters.GetByID(ctx, characterID)
	if err != nil {
		return err
	}
	if character.UserID != userID {
		return fmt.Errorf("%w: character belongs to another account", domain.ErrNotAuthorized)
	}

	return s.characters.UpdateRole(ctx, characterID, role)
}
