package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/domain"
)

type fakeAPI struct {
	characters []blizzard.AccountCharacter
	err        error
}

func (f *fakeAPI) AccountCharacters(ctx context.Context, userToken string) ([]blizzard.AccountCharacter, error) {
	return f.characters, f.err
}

func newTestService(api BnetAPI) (Service, *FakeUserRepository, *FakeCharacterRepository) {
	users := NewFakeUserRepository()
	characters := NewFakeCharacterRepository()
	return NewService(users, characters, api, "us"), users, characters
}

func login(t *testing.T, svc Service) *domain.User {
	t.Helper()
	user, err := svc.LoginFromBnet(context.Background(),
		&blizzard.UserInfo{ID: 1001, BattleTag: "Shadow#1234"}, "us", "en_US")
	require.NoError(t, err)
	return user
}

func TestLoginFromBnet_CreatesUser(t *testing.T) {
	svc, _, _ := newTestService(&fakeAPI{})

	user := login(t, svc)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, int64(1001), user.BnetID)
	assert.Equal(t, "Shadow#1234", user.BattleTag)
	assert.Equal(t, "us", user.Region)
	assert.Equal(t, "en_US", user.Locale)
}

func TestLoginFromBnet_SecondLoginKeepsID(t *testing.T) {
	svc, _, _ := newTestService(&fakeAPI{})

	first := login(t, svc)
	second, err := svc.LoginFromBnet(context.Background(),
		&blizzard.UserInfo{ID: 1001, BattleTag: "Shadow#5678"}, "us", "en_US")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Shadow#5678", second.BattleTag)
}

func TestLoginFromBnet_RejectsMissingInfo(t *testing.T) {
	svc, _, _ := newTestService(&fakeAPI{})

	_, err := svc.LoginFromBnet(context.Background(), nil, "us", "en_US")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.LoginFromBnet(context.Background(), &blizzard.UserInfo{}, "us", "en_US")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSyncCharacters(t *testing.T) {
	api := &fakeAPI{characters: []blizzard.AccountCharacter{
		{ID: 1, Name: "Shadowstep", Realm: "Mal'Ganis", RealmSlug: "malganis", Class: "Rogue", Level: 80},
		{ID: 2, Name: "Frosty", Realm: "Mal'Ganis", RealmSlug: "malganis", Class: "Mage", Level: 72},
	}}
	svc, _, _ := newTestService(api)
	user := login(t, svc)

	synced, err := svc.SyncCharacters(context.Background(), user.ID, "user-token")
	require.NoError(t, err)
	require.Len(t, synced, 2)

	characters, err := svc.Characters(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, characters, 2)
	assert.Equal(t, "Frosty", characters[0].Name)
	assert.Equal(t, "Rogue", characters[1].Class)
	assert.Equal(t, user.ID, characters[1].UserID)
	assert.Equal(t, "us", characters[1].Region)
}

func TestSyncCharacters_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(&fakeAPI{})

	_, err := svc.SyncCharacters(context.Background(), "nope", "token")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSyncCharacters_UpstreamFailure(t *testing.T) {
	api := &fakeAPI{err: errors.New("upstream down")}
	svc, _, _ := newTestService(api)
	user := login(t, svc)

	_, err := svc.SyncCharacters(context.Background(), user.ID, "token")
	assert.Error(t, err)
}

func TestSetCharacterRole(t *testing.T) {
	api := &fakeAPI{characters: []blizzard.AccountCharacter{
		{ID: 1, Name: "Shadowstep", RealmSlug: "malganis", Class: "Rogue", Level: 80},
	}}
	svc, _, characters := newTestService(api)
	user := login(t, svc)

	synced, err := svc.SyncCharacters(context.Background(), user.ID, "token")
	require.NoError(t, err)
	charID := synced[0].ID

	require.NoError(t, svc.SetCharacterRole(context.Background(), user.ID, charID, domain.RoleTank))
	got, err := characters.GetByID(context.Background(), charID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTank, got.Role)
}

func TestSetCharacterRole_InvalidRole(t *testing.T) {
	svc, _, _ := newTestService(&fakeAPI{})
	user := login(t, svc)

	err := svc.SetCharacterRole(context.Background(), user.ID, "char-1", "JESTER")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetCharacterRole_WrongOwner(t *testing.T) {
	api := &fakeAPI{characters: []blizzard.AccountCharacter{
		{ID: 1, Name: "Shadowstep", RealmSlug: "malganis", Class: "Rogue", Level: 80},
	}}
	svc, _, _ := newTestService(api)
	owner := login(t, svc)

	synced, err := svc.SyncCharacters(context.Background(), owner.ID, "token")
	require.NoError(t, err)

	err = svc.SetCharacterRole(context.Background(), "someone-else", synced[0].ID, domain.RoleHealer)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestDeleteAccount(t *testing.T) {
	svc, _, _ := newTestService(&fakeAPI{})
	user := login(t, svc)

	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID))
	_, err := svc.GetUser(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(context.Background(), user.ID), domain.ErrUserNotFound)
}
