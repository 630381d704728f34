package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/auth"
	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/user"
)

// fakeBnetAuth stubs the OAuth code exchange and user info lookup.
type fakeBnetAuth struct {
	token       string
	info        *blizzard.UserInfo
	exchangeErr error
	characters  []blizzard.AccountCharacter
}

func (f *fakeBnetAuth) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeBnetAuth) UserInfo(ctx context.Context, userToken string) (*blizzard.UserInfo, error) {
	return f.info, nil
}

func (f *fakeBnetAuth) AccountCharacters(ctx context.Context, userToken string) ([]blizzard.AccountCharacter, error) {
	return f.characters, nil
}

func newAuthTestEnv(t *testing.T) (AuthConfig, *fakeBnetAuth, user.Service, *auth.Manager) {
	t.Helper()

	api := &fakeBnetAuth{
		token: "user-token",
		info:  &blizzard.UserInfo{ID: 1001, BattleTag: "Shadow#1234"},
	}
	users := user.NewService(user.NewFakeUserRepository(), user.NewFakeCharacterRepository(), api, "us")
	sessions, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	cfg := AuthConfig{
		ClientID:    "client-id",
		RedirectURI: "http://localhost:8080/api/auth/callback",
		FrontendURL: "http://localhost:3000",
		Region:      "us",
		Locale:      "en_US",
	}
	return cfg, api, users, sessions
}

func TestHandleLogin_RedirectsWithState(t *testing.T) {
	cfg, _, _, _ := newAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	HandleLogin(cfg)(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "oauth.battle.net", location.Host)
	assert.Equal(t, "client-id", location.Query().Get("client_id"))
	assert.NotEmpty(t, location.Query().Get("state"))

	cookies := rec.Result().Cookies()
	var state string
	for _, c := range cookies {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	assert.Equal(t, location.Query().Get("state"), state)
}

func TestHandleCallback_IssuesSession(t *testing.T) {
	cfg, _, users, sessions := newAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=abc&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "xyz"})
	rec := httptest.NewRecorder()

	api := &fakeBnetAuth{
		token: "user-token",
		info:  &blizzard.UserInfo{ID: 1001, BattleTag: "Shadow#1234"},
	}
	HandleCallback(api, users, sessions, cfg)(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, cfg.FrontendURL, rec.Header().Get("Location"))

	var session string
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			session = c.Value
		}
	}
	require.NotEmpty(t, session)

	claims, err := sessions.ParseSession(session)
	require.NoError(t, err)
	assert.Equal(t, "Shadow#1234", claims.BattleTag)
}

func TestHandleCallback_StateMismatch(t *testing.T) {
	cfg, api, users, sessions := newAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "xyz"})
	rec := httptest.NewRecorder()

	HandleCallback(api, users, sessions, cfg)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCallback_MissingCode(t *testing.T) {
	cfg, api, users, sessions := newAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "xyz"})
	rec := httptest.NewRecorder()

	HandleCallback(api, users, sessions, cfg)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCallback_ExchangeFails(t *testing.T) {
	cfg, api, users, sessions := newAuthTestEnv(t)
	api.exchangeErr = errors.New("bnet is down")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=abc&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "xyz"})
	rec := httptest.NewRecorder()

	HandleCallback(api, users, sessions, cfg)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleLogout(t *testing.T) {
	cfg, _, _, _ := newAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	HandleLogout(cfg)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
