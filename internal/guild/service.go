// Package guild syncs guild membership from the game API and answers
// rank-based authorization questions.
package guild

import (
	"context"
	"errors"
	"fmt"

	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/repository"
)

// BnetAPI is the part of the Battle.net client the service needs.
type BnetAPI interface {
	GuildRoster(ctx context.Context, realm, guildSlug string) (*blizzard.GuildRoster, error)
}

// Service defines the interface for guild operations
type Service interface {
	// Sync pulls the member list from the game API and reconciles it
	Sync(ctx context.Context, region, realm, slug string) (*domain.Guild, error)
	Get(ctx context.Context, region, realm, slug string) (*domain.Guild, error)
	GetByID(ctx context.Context, guildID string) (*domain.Guild, error)
	Members(ctx context.Context, guildID string) ([]domain.Character, error)

	// IsOfficer reports whether any of the user's characters holds a rank
	// allowed to manage rosters
	IsOfficer(ctx context.Context, guildID, userID string) (bool, error)
	SetRosterCreationRank(ctx context.Context, userID, guildID string, rank int) error
}

type service struct {
	guilds repository.Guild
	api    BnetAPI
	bus    event.Bus
}

// NewService creates a new guild service
func NewService(guilds repository.Guild, api BnetAPI, bus event.Bus) Service {
	return &service{guilds: guilds, api: api, bus: bus}
}

func (s *service) Sync(ctx context.Context, region, realm, slug string) (*domain.Guild, error) {
	fetched, err := s.api.GuildRoster(ctx, realm, slug)
	if err != nil {
		return nil, err
	}

	guild := &domain.Guild{
		Name:    fetched.GuildName,
		Realm:   realm,
		Slug:    slug,
		Region:  region,
		Faction: fetched.Faction,
	}
	if err := s.guilds.Upsert(ctx, guild); err != nil {
		return nil, err
	}

	members := make([]domain.Character, 0, len(fetched.Members))
	for _, m := range fetched.Members {
		members = append(members, domain.Character{
			Name:      m.Name,
			Realm:     m.RealmSlug,
			Region:    region,
			Class:     blizzard.ClassName(m.ClassID),
			Level:     m.Level,
			GuildRank: m.Rank,
		})
	}
	if err := s.guilds.ReplaceMembers(ctx, guild.ID, members); err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, event.NewGuildSyncedEvent(slug, len(members))); err != nil {
		logger.FromContext(ctx).Warn("failed to publish guild sync event", "error", err)
	}

	logger.FromContext(ctx).Info("guild synced",
		"guild", slug,
		"realm", realm,
		"members", len(members))
	return guild, nil
}

func (s *service) Get(ctx context.Context, region, realm, slug string) (*domain.Guild, error) {
	return s.guilds.GetBySlug(ctx, region, realm, slug)
}

func (s *service) GetByID(ctx context.Context, guildID string) (*domain.Guild, error) {
	return s.guilds.GetByID(ctx, guildID)
}

func (s *service) Members(ctx context.Context, guildID string) ([]domain.Character, error) {
	return s.guilds.ListMembers(ctx, guildID)
}

func (s *service) IsOfficer(ctx context.Context, guildID, userID string) (bool, error) {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return false, err
	}

	rank, err := s.guilds.BestRankForUser(ctx, guildID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotGuildMember) {
			return false, nil
		}
		return false, err
	}
	return rank <= guild.RosterCreationRank, nil
}

func (s *service) SetRosterCreationRank(ctx context.Context, userID, guildID string, rank int) error {
	if rank < 0 {
		return fmt.Errorf("%w: rank must not be negative", domain.ErrInvalidInput)
	}

	// Only the guild master may move the threshold.
	memberRank, err := s.guilds.BestRankForUser(ctx, guildID, userID)
	if err != nil {
		return err
	}
	if memberRank != 0 {
		return fmt.Errorf("%w: only the guild master can change the roster rank", domain.ErrNotAuthorized)
	}

	return s.guilds.SetRosterCreationRank(ctx, guildID, rank)
}
