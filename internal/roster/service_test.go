package roster

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
)

// fakeAuthorizer treats a fixed set of users as officers.
type fakeAuthorizer struct {
	officers map[string]bool
}

func (f *fakeAuthorizer) IsOfficer(ctx context.Context, guildID, userID string) (bool, error) {
	return f.officers[userID], nil
}

func newTestService() (Service, *FakeRosterRepository, *event.MemoryBus) {
	repo := NewFakeRosterRepository()
	bus := event.NewMemoryBus()
	auth := &fakeAuthorizer{officers: map[string]bool{"officer": true}}
	return NewService(repo, auth, bus), repo, bus
}

func createRoster(t *testing.T, svc Service, size int) *domain.Roster {
	t.Helper()
	roster, err := svc.Create(context.Background(), "officer", "guild-1", "Mythic Team", size)
	require.NoError(t, err)
	return roster
}

func TestCreate(t *testing.T) {
	svc, _, _ := newTestService()

	roster := createRoster(t, svc, 20)
	assert.NotEmpty(t, roster.ID)
	assert.Equal(t, "guild-1", roster.GuildID)
	assert.Equal(t, 20, roster.Size)
	assert.Equal(t, "officer", roster.CreatedBy)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "officer", "guild-1", "   ", 20)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, "officer", "guild-1", "Team", domain.RosterMinSize-1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, "officer", "guild-1", "Team", domain.RosterMaxSize+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_RequiresOfficer(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), "grunt", "guild-1", "Team", 20)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestAddCharacter(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)

	err := svc.AddCharacter(context.Background(), "officer", roster.ID, "char-1", domain.RoleTank, domain.RosterStatusActive)
	require.NoError(t, err)

	_, entries, err := svc.Get(context.Background(), roster.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "char-1", entries[0].CharacterID)
	assert.Equal(t, domain.RoleTank, entries[0].Role)
	assert.Equal(t, domain.RosterStatusActive, entries[0].Status)
}

func TestAddCharacter_DefaultsToActive(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)

	err := svc.AddCharacter(context.Background(), "officer", roster.ID, "char-1", domain.RoleDamage, "")
	require.NoError(t, err)

	_, entries, err := svc.Get(context.Background(), roster.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RosterStatusActive, entries[0].Status)
}

func TestAddCharacter_RosterFull(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		charID := fmt.Sprintf("char-%d", i)
		require.NoError(t, svc.AddCharacter(ctx, "officer", roster.ID, charID, domain.RoleDamage, domain.RosterStatusActive))
	}

	err := svc.AddCharacter(ctx, "officer", roster.ID, "char-11", domain.RoleDamage, domain.RosterStatusActive)
	assert.ErrorIs(t, err, domain.ErrRosterFull)
}

func TestAddCharacter_InvalidRole(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)

	err := svc.AddCharacter(context.Background(), "officer", roster.ID, "char-1", "BARD", domain.RosterStatusActive)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddCharacter_RequiresOfficer(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)

	err := svc.AddCharacter(context.Background(), "grunt", roster.ID, "char-1", domain.RoleTank, domain.RosterStatusActive)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestAddCharacter_PublishesEvent(t *testing.T) {
	svc, _, bus := newTestService()

	var got event.Event
	bus.Subscribe(event.RosterUpdated, func(ctx context.Context, ev event.Event) error {
		got = ev
		return nil
	})

	roster := createRoster(t, svc, 10)
	require.NoError(t, svc.AddCharacter(context.Background(), "officer", roster.ID, "char-1", domain.RoleHealer, domain.RosterStatusBench))

	payload, ok := got.Payload.(event.RosterUpdatedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, roster.ID, payload.RosterID)
	assert.Equal(t, 1, payload.Size)
}

func TestRemoveCharacter(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)
	ctx := context.Background()

	require.NoError(t, svc.AddCharacter(ctx, "officer", roster.ID, "char-1", domain.RoleTank, domain.RosterStatusActive))
	require.NoError(t, svc.RemoveCharacter(ctx, "officer", roster.ID, "char-1"))

	_, entries, err := svc.Get(ctx, roster.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, svc.RemoveCharacter(ctx, "officer", roster.ID, "char-1"), domain.ErrCharacterNotFound)
}

func TestUpdateCharacter(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)
	ctx := context.Background()

	require.NoError(t, svc.AddCharacter(ctx, "officer", roster.ID, "char-1", domain.RoleDamage, domain.RosterStatusActive))

	err := svc.UpdateCharacter(ctx, "officer", &domain.RosterCharacter{
		RosterID:    roster.ID,
		CharacterID: "char-1",
		Role:        domain.RoleHealer,
		Status:      domain.RosterStatusBench,
	})
	require.NoError(t, err)

	_, entries, err := svc.Get(ctx, roster.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHealer, entries[0].Role)
	assert.Equal(t, domain.RosterStatusBench, entries[0].Status)
}

func TestRenameAndDelete(t *testing.T) {
	svc, _, _ := newTestService()
	roster := createRoster(t, svc, 10)
	ctx := context.Background()

	require.NoError(t, svc.Rename(ctx, "officer", roster.ID, "Heroic Team"))
	got, _, err := svc.Get(ctx, roster.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heroic Team", got.Name)

	assert.ErrorIs(t, svc.Rename(ctx, "grunt", roster.ID, "Nope"), domain.ErrNotAuthorized)

	require.NoError(t, svc.Delete(ctx, "officer", roster.ID))
	_, _, err = svc.Get(ctx, roster.ID)
	assert.ErrorIs(t, err, domain.ErrRosterNotFound)
}

func TestGet_UnknownRoster(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.Get(context.Background(), "no-such-roster")
	assert.ErrorIs(t, err, domain.ErrRosterNotFound)
}
