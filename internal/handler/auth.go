package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/wowlab/guildsim/internal/auth"
	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/user"
)

// OAuth state cookie settings
const (
	stateCookieName = "guildsim_oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

// DefaultAuthorizeURL is the Battle.net authorization endpoint.
const DefaultAuthorizeURL = "https://oauth.battle.net/authorize"

// BnetAuth is the part of the Battle.net client the login flow needs.
type BnetAuth interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
	UserInfo(ctx context.Context, userToken string) (*blizzard.UserInfo, error)
}

// AuthConfig wires the OAuth login handlers.
type AuthConfig struct {
	ClientID     string
	AuthorizeURL string
	// RedirectURI is this server's callback URL registered with Battle.net
	RedirectURI string
	// FrontendURL is where the browser lands after a completed login
	FrontendURL string
	Region      string
	Locale      string
	// Secure marks session cookies as HTTPS-only
	Secure bool
}

// sessionUserID extracts the authenticated user from the request context.
func sessionUserID(r *http.Request) (string, bool) {
	return auth.UserIDFromContext(r.Context())
}

// HandleLogin starts the OAuth flow: set a state cookie and redirect to
// the Battle.net authorization page
func HandleLogin(cfg AuthConfig) http.HandlerFunc {
	authorizeURL := cfg.AuthorizeURL
	if authorizeURL == "" {
		authorizeURL = DefaultAuthorizeURL
	}

	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   int(stateCookieTTL.Seconds()),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		query := url.Values{
			"client_id":     {cfg.ClientID},
			"redirect_uri":  {cfg.RedirectURI},
			"response_type": {"code"},
			"scope":         {"openid wow.profile"},
			"state":         {state},
		}
		http.Redirect(w, r, authorizeURL+"?"+query.Encode(), http.StatusFound)
	}
}

// HandleCallback finishes the OAuth flow: verify state, exchange the code,
// upsert the account, sync its characters and issue a session cookie
func HandleCallback(api BnetAuth, users user.Service, sessions *auth.Manager, cfg AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			respondError(w, http.StatusBadRequest, ErrMsgOAuthStateInvalid)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			respondError(w, http.StatusBadRequest, ErrMsgOAuthCodeMissing)
			return
		}

		token, err := api.ExchangeCode(r.Context(), code, cfg.RedirectURI)
		if err != nil {
			respondServiceError(w, r, ErrMsgLoginFailed, err)
			return
		}

		info, err := api.UserInfo(r.Context(), token)
		if err != nil {
			respondServiceError(w, r, ErrMsgLoginFailed, err)
			return
		}

		account, err := users.LoginFromBnet(r.Context(), info, cfg.Region, cfg.Locale)
		if err != nil {
			respondServiceError(w, r, ErrMsgLoginFailed, err)
			return
		}

		// Character sync needs the user token, which is not persisted, so
		// it happens while we still hold it. A failed sync does not block
		// the login.
		if _, err := users.SyncCharacters(r.Context(), account.ID, token); err != nil {
			log.Warn("character sync during login failed",
				"user_id", account.ID,
				"error", err)
		}

		session, err := sessions.IssueSession(account)
		if err != nil {
			respondServiceError(w, r, ErrMsgLoginFailed, err)
			return
		}

		// Drop the used state cookie.
		http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1})
		http.SetCookie(w, sessions.SessionCookie(session, cfg.Secure))

		log.Info("user logged in", "user_id", account.ID, "battletag", account.BattleTag)
		http.Redirect(w, r, cfg.FrontendURL, http.StatusFound)
	}
}

// HandleLogout clears the session cookie
func HandleLogout(cfg AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, auth.ClearCookie(cfg.Secure))
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgLoggedOutSuccess})
	}
}

// HandleMe returns the logged-in account
func HandleMe(users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}

		account, err := users.GetUser(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "Get account", err)
			return
		}

		respondJSON(w, http.StatusOK, account)
	}
}
