package blizzard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/domain"
)

// fakeAPI stands in for both the OAuth host and the game API host.
type fakeAPI struct {
	srv        *httptest.Server
	tokenCalls atomic.Int32
	apiCalls   atomic.Int32
	responses  map[string]any
	status     map[string]int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		responses: make(map[string]any),
		status:    make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			f.tokenCalls.Add(1)
			require.NoError(t, r.ParseForm())
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "app-token",
				"token_type":   "bearer",
				"expires_in":   86399,
			})
			return
		}

		f.apiCalls.Add(1)
		if code, ok := f.status[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}
		body, ok := f.responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func newTestClient(t *testing.T, api *fakeAPI) *blizzard.Client {
	t.Helper()
	c, err := blizzard.New(blizzard.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Region:       "us",
		Locale:       "en_US",
		APIBaseURL:   api.srv.URL,
		OAuthBaseURL: api.srv.URL,
	})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := blizzard.New(blizzard.Config{})
	assert.Error(t, err)
}

func TestCharacterProfile(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/profile/wow/character/malganis/shadowstep"] = map[string]any{
		"name":                "Shadowstep",
		"realm":               map[string]any{"name": "Mal'Ganis", "slug": "malganis"},
		"character_class":     map[string]any{"name": "Rogue"},
		"active_spec":         map[string]any{"name": "Subtlety"},
		"level":               80,
		"faction":             map[string]any{"name": "Horde"},
		"guild":               map[string]any{"name": "Wow Lab"},
		"average_item_level":  636,
		"equipped_item_level": 634,
	}
	c := newTestClient(t, api)

	summary, err := c.CharacterProfile(context.Background(), "Mal'Ganis", "Shadowstep")
	require.NoError(t, err)

	assert.Equal(t, "Shadowstep", summary.Name)
	assert.Equal(t, "Mal'Ganis", summary.Realm)
	assert.Equal(t, "malganis", summary.RealmSlug)
	assert.Equal(t, "Rogue", summary.Class)
	assert.Equal(t, "Subtlety", summary.ActiveSpec)
	assert.Equal(t, "Wow Lab", summary.GuildName)
	assert.Equal(t, 634, summary.EquippedItemLevel)
}

func TestCharacterProfile_CachesUntilInvalidated(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/profile/wow/character/malganis/shadowstep"] = map[string]any{
		"name":  "Shadowstep",
		"realm": map[string]any{"name": "Mal'Ganis", "slug": "malganis"},
	}
	c := newTestClient(t, api)

	for i := 0; i < 3; i++ {
		_, err := c.CharacterProfile(context.Background(), "Mal'Ganis", "Shadowstep")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.apiCalls.Load())

	c.InvalidateCharacter(context.Background(), "Mal'Ganis", "Shadowstep")
	_, err := c.CharacterProfile(context.Background(), "Mal'Ganis", "Shadowstep")
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.apiCalls.Load())
}

func TestCharacterProfile_NotFound(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	_, err := c.CharacterProfile(context.Background(), "malganis", "nobody")
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}

func TestCharacterEquipment(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/profile/wow/character/malganis/shadowstep/equipment"] = map[string]any{
		"equipped_items": []any{
			map[string]any{
				"item":         map[string]any{"id": 212039},
				"slot":         map[string]any{"type": "HEAD", "name": "Head"},
				"name":         "Shroud of the Umbral Sting",
				"level":        map[string]any{"value": 639},
				"bonus_list":   []int{6652, 10356},
				"enchantments": []any{map[string]any{"enchantment_id": 7931}},
				"sockets": []any{
					map[string]any{"item": map[string]any{"id": 213743}},
				},
			},
		},
	}
	c := newTestClient(t, api)

	eq, err := c.CharacterEquipment(context.Background(), "malganis", "Shadowstep")
	require.NoError(t, err)
	require.Len(t, eq.Items, 1)

	item := eq.Items[0]
	assert.Equal(t, 212039, item.ID)
	assert.Equal(t, "HEAD", item.Slot)
	assert.Equal(t, 639, item.ItemLevel)
	assert.Equal(t, []int{6652, 10356}, item.BonusIDs)
	assert.Equal(t, []int{7931}, item.EnchantIDs)
	assert.Equal(t, []int{213743}, item.GemIDs)
}

func TestItemMedia(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/data/wow/media/item/212039"] = map[string]any{
		"assets": []any{
			map[string]any{"key": "icon", "value": "https://render.example/icon.jpg"},
		},
	}
	c := newTestClient(t, api)

	iconURL, err := c.ItemMedia(context.Background(), 212039)
	require.NoError(t, err)
	assert.Equal(t, "https://render.example/icon.jpg", iconURL)

	// Second lookup is served from the static cache.
	_, err = c.ItemMedia(context.Background(), 212039)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.apiCalls.Load())
}

func TestItemMedia_NoIconAsset(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/data/wow/media/item/1"] = map[string]any{"assets": []any{}}
	c := newTestClient(t, api)

	_, err := c.ItemMedia(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUpstreamError)
}

func TestRealmIndex(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/data/wow/realm/index"] = map[string]any{
		"realms": []any{
			map[string]any{"id": 3684, "name": "Mal'Ganis", "slug": "malganis"},
			map[string]any{"id": 60, "name": "Stormrage", "slug": "stormrage"},
		},
	}
	c := newTestClient(t, api)

	realms, err := c.RealmIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, realms, 2)
	assert.Equal(t, blizzard.Realm{ID: 3684, Name: "Mal'Ganis", Slug: "malganis"}, realms[0])
	assert.Equal(t, "stormrage", realms[1].Slug)

	// Second lookup is served from the static cache.
	_, err = c.RealmIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.apiCalls.Load())
}

func TestGuildRoster(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/data/wow/guild/malganis/wow-lab/roster"] = map[string]any{
		"guild": map[string]any{
			"name":    "Wow Lab",
			"faction": map[string]any{"type": "HORDE"},
		},
		"members": []any{
			map[string]any{
				"character": map[string]any{
					"name":           "Shadowstep",
					"realm":          map[string]any{"slug": "malganis"},
					"level":          80,
					"playable_class": map[string]any{"id": 4},
				},
				"rank": 0,
			},
			map[string]any{
				"character": map[string]any{
					"name":           "Frosty",
					"realm":          map[string]any{"slug": "malganis"},
					"level":          78,
					"playable_class": map[string]any{"id": 8},
				},
				"rank": 3,
			},
		},
	}
	c := newTestClient(t, api)

	roster, err := c.GuildRoster(context.Background(), "Mal'Ganis", "wow-lab")
	require.NoError(t, err)

	assert.Equal(t, "Wow Lab", roster.GuildName)
	assert.Equal(t, "HORDE", roster.Faction)
	require.Len(t, roster.Members, 2)
	assert.Equal(t, "Shadowstep", roster.Members[0].Name)
	assert.Equal(t, 0, roster.Members[0].Rank)
	assert.Equal(t, 8, roster.Members[1].ClassID)
}

func TestGuildRoster_NotFound(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	_, err := c.GuildRoster(context.Background(), "malganis", "no-such-guild")
	assert.ErrorIs(t, err, domain.ErrGuildNotFound)
}

func TestTokenIsFetchedOnceAcrossRequests(t *testing.T) {
	api := newFakeAPI(t)
	api.responses["/data/wow/media/item/1"] = map[string]any{
		"assets": []any{map[string]any{"key": "icon", "value": "a"}},
	}
	api.responses["/data/wow/media/item/2"] = map[string]any{
		"assets": []any{map[string]any{"key": "icon", "value": "b"}},
	}
	c := newTestClient(t, api)

	_, err := c.ItemMedia(context.Background(), 1)
	require.NoError(t, err)
	_, err = c.ItemMedia(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, int32(1), api.tokenCalls.Load())
}

func TestRealmSlug(t *testing.T) {
	tests := []struct {
		realm string
		want  string
	}{
		{"Mal'Ganis", "malganis"},
		{"Twisting Nether", "twisting-nether"},
		{"  Area 52 ", "area-52"},
		{"stormrage", "stormrage"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, blizzard.RealmSlug(tt.realm))
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "en_US"},
		{"en_US", "en_US"},
		{"en-GB", "en_GB"},
		{"de", "de_DE"},
		{"fr-FR", "fr_FR"},
		{"pt", "pt_BR"},
		{"not a locale", "en_US"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, blizzard.NormalizeLocale(tt.in), "locale %q", tt.in)
	}
}
