package user

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wowlab/guildsim/internal/domain"
)

// FakeUserRepository is an in-memory user repository for tests.
type FakeUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

// NewFakeUserRepository creates an empty fake
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[string]domain.User)}
}

func (f *FakeUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.BnetID == user.BnetID {
			user.ID = existing.ID
			user.CreatedAt = existing.CreatedAt
			user.LastLogin = time.Now()
			f.users[user.ID] = *user
			return nil
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.LastLogin = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *FakeUserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (f *FakeUserRepository) GetByBnetID(ctx context.Context, bnetID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.BnetID == bnetID {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *FakeUserRepository) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.LastLogin = at
	f.users[userID] = user
	return nil
}

func (f *FakeUserRepository) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

// FakeCharacterRepository is an in-memory character repository for tests.
type FakeCharacterRepository struct {
	mu         sync.Mutex
	characters map[string]domain.Character
}

// NewFakeCharacterRepository creates an empty fake
func NewFakeCharacterRepository() *FakeCharacterRepository {
	return &FakeCharacterRepository{characters: make(map[string]domain.Character)}
}

func (f *FakeCharacterRepository) identityKey(region, realm, name string) string {
	return fmt.Sprintf("%s/%s/%s", region, realm, name)
}

func (f *FakeCharacterRepository) Upsert(ctx context.Context, character *domain.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upsertLocked(character)
}

func (f *FakeCharacterRepository) upsertLocked(character *domain.Character) error {
	key := f.identityKey(character.Region, character.Realm, character.Name)
	for id, existing := range f.characters {
		if f.identityKey(existing.Region, existing.Realm, existing.Name) == key {
			character.ID = id
			if character.UserID == "" {
				character.UserID = existing.UserID
			}
			if character.Role == "" {
				character.Role = existing.Role
			}
			character.UpdatedAt = time.Now()
			f.characters[id] = *character
			return nil
		}
	}
	character.ID = uuid.NewString()
	if character.Role == "" {
		character.Role = domain.RoleDamage
	}
	character.UpdatedAt = time.Now()
	f.characters[character.ID] = *character
	return nil
}

func (f *FakeCharacterRepository) UpsertBatch(ctx context.Context, characters []domain.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range characters {
		if err := f.upsertLocked(&characters[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *FakeCharacterRepository) GetByID(ctx context.Context, characterID string) (*domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.characters[characterID]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	return &ch, nil
}

func (f *FakeCharacterRepository) GetByNameRealm(ctx context.Context, region, realm, name string) (*domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.identityKey(region, realm, name)
	for _, ch := range f.characters {
		if f.identityKey(ch.Region, ch.Realm, ch.Name) == key {
			c := ch
			return &c, nil
		}
	}
	return nil, domain.ErrCharacterNotFound
}

func (f *FakeCharacterRepository) ListByUser(ctx context.Context, userID string) ([]domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Character
	for _, ch := range f.characters {
		if ch.UserID == userID {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeCharacterRepository) UpdateRole(ctx context.Context, characterID string, role domain.CharacterRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.characters[characterID]
	if !ok {
		return domain.ErrCharacterNotFound
	}
	ch.Role = role
	f.characters[characterID] = ch
	return nil
}

func (f *FakeCharacterRepository) Delete(ctx context.Context, characterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.characters[characterID]; !ok {
		return domain.ErrCharacterNotFound
	}
	delete(f.characters, characterID)
	return nil
}
