package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/auth"
	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/roster"
)

type staticAuthorizer struct {
	officers map[string]bool
}

func (s *staticAuthorizer) IsOfficer(ctx context.Context, guildID, userID string) (bool, error) {
	return s.officers[userID], nil
}

// rosterTestEnv wires the roster handlers behind real session middleware.
type rosterTestEnv struct {
	router   http.Handler
	sessions *auth.Manager
	service  roster.Service
}

func newRosterTestEnv(t *testing.T) *rosterTestEnv {
	t.Helper()

	sessions, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	svc := roster.NewService(
		roster.NewFakeRosterRepository(),
		&staticAuthorizer{officers: map[string]bool{"officer": true}},
		event.NewMemoryBus(),
	)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireSession)
		r.Post("/api/rosters", HandleCreateRoster(svc))
		r.Get("/api/rosters/{rosterID}", HandleGetRoster(svc))
		r.Post("/api/rosters/{rosterID}/characters", HandleAddRosterCharacter(svc))
		r.Delete("/api/rosters/{rosterID}/characters/{characterID}", HandleRemoveRosterCharacter(svc))
	})

	return &rosterTestEnv{router: r, sessions: sessions, service: svc}
}

func (env *rosterTestEnv) request(t *testing.T, method, path, userID string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if userID != "" {
		token, err := env.sessions.IssueSession(&domain.User{ID: userID, BattleTag: userID + "#1234"})
		require.NoError(t, err)
		req.AddCookie(env.sessions.SessionCookie(token, false))
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateRoster(t *testing.T) {
	env := newRosterTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/rosters", "officer", CreateRosterRequest{
		GuildID: "guild-1",
		Name:    "Mythic Team",
		Size:    20,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Roster
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mythic Team", created.Name)
	assert.Equal(t, 20, created.Size)
}

func TestHandleCreateRoster_RequiresSession(t *testing.T) {
	env := newRosterTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/rosters", "", CreateRosterRequest{
		GuildID: "guild-1",
		Name:    "Mythic Team",
		Size:    20,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCreateRoster_RequiresOfficer(t *testing.T) {
	env := newRosterTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/rosters", "grunt", CreateRosterRequest{
		GuildID: "guild-1",
		Name:    "Mythic Team",
		Size:    20,
	})

	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgNotAuthorizedError, resp.Error)
}

func TestHandleCreateRoster_ValidatesSize(t *testing.T) {
	env := newRosterTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/rosters", "officer", CreateRosterRequest{
		GuildID: "guild-1",
		Name:    "Tiny Team",
		Size:    3,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "size")
}

func TestHandleAddAndRemoveRosterCharacter(t *testing.T) {
	env := newRosterTestEnv(t)

	created, err := env.service.Create(context.Background(), "officer", "guild-1", "Mythic Team", 10)
	require.NoError(t, err)

	rec := env.request(t, http.MethodPost, "/api/rosters/"+created.ID+"/characters", "officer",
		AddRosterCharacterRequest{CharacterID: "char-1", Role: "TANK"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/rosters/"+created.ID, "officer", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RosterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Characters, 1)
	assert.Equal(t, domain.RoleTank, resp.Characters[0].Role)
	assert.Equal(t, domain.RosterStatusActive, resp.Characters[0].Status)

	rec = env.request(t, http.MethodDelete, "/api/rosters/"+created.ID+"/characters/char-1", "officer", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/rosters/"+created.ID, "officer", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Characters)
}

func TestHandleAddRosterCharacter_InvalidRole(t *testing.T) {
	env := newRosterTestEnv(t)

	created, err := env.service.Create(context.Background(), "officer", "guild-1", "Mythic Team", 10)
	require.NoError(t, err)

	rec := env.request(t, http.MethodPost, "/api/rosters/"+created.ID+"/characters", "officer",
		AddRosterCharacterRequest{CharacterID: "char-1", Role: "BARD"})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "role")
}
