package guild

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wowlab/guildsim/internal/domain"
)

// FakeGuildRepository is an in-memory guild repository for tests.
type FakeGuildRepository struct {
	mu      sync.Mutex
	guilds  map[string]domain.Guild
	members map[string][]domain.Character
	// owners maps "guildID/userID" to the user's best rank
	owners map[string]int
}

// NewFakeGuildRepository creates an empty fake
func NewFakeGuildRepository() *FakeGuildRepository {
	return &FakeGuildRepository{
		guilds:  make(map[string]domain.Guild),
		members: make(map[string][]domain.Character),
		owners:  make(map[string]int),
	}
}

// SetUserRank wires a user's best character rank for authorization tests
func (f *FakeGuildRepository) SetUserRank(guildID, userID string, rank int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners[guildID+"/"+userID] = rank
}

func (f *FakeGuildRepository) Upsert(ctx context.Context, guild *domain.Guild) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, existing := range f.guilds {
		if existing.Region == guild.Region && existing.Realm == guild.Realm && existing.Slug == guild.Slug {
			guild.ID = id
			guild.RosterCreationRank = existing.RosterCreationRank
			guild.UpdatedAt = time.Now()
			f.guilds[id] = *guild
			return nil
		}
	}

	guild.ID = uuid.NewString()
	if guild.RosterCreationRank == 0 {
		guild.RosterCreationRank = 2
	}
	guild.UpdatedAt = time.Now()
	f.guilds[guild.ID] = *guild
	return nil
}

func (f *FakeGuildRepository) GetByID(ctx context.Context, guildID string) (*domain.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guilds[guildID]
	if !ok {
		return nil, domain.ErrGuildNotFound
	}
	return &g, nil
}

func (f *FakeGuildRepository) GetBySlug(ctx context.Context, region, realm, slug string) (*domain.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guilds {
		if g.Region == region && g.Realm == realm && g.Slug == slug {
			guild := g
			return &guild, nil
		}
	}
	return nil, domain.ErrGuildNotFound
}

func (f *FakeGuildRepository) SetRosterCreationRank(ctx context.Context, guildID string, rank int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guilds[guildID]
	if !ok {
		return domain.ErrGuildNotFound
	}
	g.RosterCreationRank = rank
	f.guilds[guildID] = g
	return nil
}

func (f *FakeGuildRepository) ReplaceMembers(ctx context.Context, guildID string, members []domain.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[guildID] = append([]domain.Character(nil), members...)
	return nil
}

func (f *FakeGuildRepository) ListMembers(ctx context.Context, guildID string) ([]domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Character(nil), f.members[guildID]...), nil
}

func (f *FakeGuildRepository) BestRankForUser(ctx context.Context, guildID, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rank, ok := f.owners[guildID+"/"+userID]
	if !ok {
		return 0, domain.ErrNotGuildMember
	}
	return rank, nil
}
