package roster

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/repository"
)

// FakeRosterRepository is an in-memory roster repository for tests.
type FakeRosterRepository struct {
	mu      sync.Mutex
	rosters map[string]domain.Roster
	entries map[string][]domain.RosterCharacter
}

// NewFakeRosterRepository creates an empty fake
func NewFakeRosterRepository() *FakeRosterRepository {
	return &FakeRosterRepository{
		rosters: make(map[string]domain.Roster),
		entries: make(map[string][]domain.RosterCharacter),
	}
}

func (f *FakeRosterRepository) Create(ctx context.Context, roster *domain.Roster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	roster.ID = uuid.NewString()
	roster.CreatedAt = time.Now()
	roster.UpdatedAt = roster.CreatedAt
	f.rosters[roster.ID] = *roster
	return nil
}

func (f *FakeRosterRepository) GetByID(ctx context.Context, rosterID string) (*domain.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getLocked(rosterID)
}

func (f *FakeRosterRepository) getLocked(rosterID string) (*domain.Roster, error) {
	roster, ok := f.rosters[rosterID]
	if !ok {
		return nil, domain.ErrRosterNotFound
	}
	return &roster, nil
}

func (f *FakeRosterRepository) ListByGuild(ctx context.Context, guildID string) ([]domain.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Roster
	for _, roster := range f.rosters {
		if roster.GuildID == guildID {
			out = append(out, roster)
		}
	}
	return out, nil
}

func (f *FakeRosterRepository) Rename(ctx context.Context, rosterID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	roster, ok := f.rosters[rosterID]
	if !ok {
		return domain.ErrRosterNotFound
	}
	roster.Name = name
	roster.UpdatedAt = time.Now()
	f.rosters[rosterID] = roster
	return nil
}

func (f *FakeRosterRepository) Delete(ctx context.Context, rosterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rosters[rosterID]; !ok {
		return domain.ErrRosterNotFound
	}
	delete(f.rosters, rosterID)
	delete(f.entries, rosterID)
	return nil
}

func (f *FakeRosterRepository) RemoveCharacter(ctx context.Context, rosterID, characterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.entries[rosterID]
	for i, entry := range entries {
		if entry.CharacterID == characterID {
			f.entries[rosterID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrCharacterNotFound
}

func (f *FakeRosterRepository) UpdateCharacter(ctx context.Context, entry *domain.RosterCharacter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.entries[entry.RosterID]
	for i, existing := range entries {
		if existing.CharacterID == entry.CharacterID {
			entry.AddedAt = existing.AddedAt
			entries[i] = *entry
			return nil
		}
	}
	return domain.ErrCharacterNotFound
}

func (f *FakeRosterRepository) ListCharacters(ctx context.Context, rosterID string) ([]domain.RosterCharacter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.RosterCharacter(nil), f.entries[rosterID]...), nil
}

func (f *FakeRosterRepository) BeginTx(ctx context.Context) (repository.RosterTx, error) {
	return &fakeRosterTx{repo: f}, nil
}

// fakeRosterTx applies writes immediately; Commit and Rollback are no-ops
// beyond marking the tx finished. Good enough for service-level tests.
type fakeRosterTx struct {
	repo *FakeRosterRepository
	done bool
}

func (t *fakeRosterTx) Commit(ctx context.Context) error {
	t.done = true
	return nil
}

func (t *fakeRosterTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}

func (t *fakeRosterTx) LockRoster(ctx context.Context, rosterID string) (*domain.Roster, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	return t.repo.getLocked(rosterID)
}

func (t *fakeRosterTx) CountCharacters(ctx context.Context, rosterID string) (int, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	return len(t.repo.entries[rosterID]), nil
}

func (t *fakeRosterTx) AddCharacter(ctx context.Context, entry *domain.RosterCharacter) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	entries := t.repo.entries[entry.RosterID]
	for i, existing := range entries {
		if existing.CharacterID == entry.CharacterID {
			entry.AddedAt = existing.AddedAt
			entries[i] = *entry
			return nil
		}
	}
	entry.AddedAt = time.Now()
	t.repo.entries[entry.RosterID] = append(entries, *entry)
	return nil
}
