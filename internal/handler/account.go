package handler

import (
	"context"
	"net/http"

	"github.com/wowlab/guildsim/internal/auth"
	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/user"
)

// HandleListCharacters returns the logged-in account's characters
func HandleListCharacters(users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}

		characters, err := users.Characters(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetCharactersFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: characters})
	}
}

// SetRoleRequest sets the raid role on one of the account's characters
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// HandleSetCharacterRole updates a character's raid role
func HandleSetCharacterRole(users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}
		characterID, ok := GetPathParam(r, w, "characterID")
		if !ok {
			return
		}

		var req SetRoleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set character role"); err != nil {
			return
		}

		if err := users.SetCharacterRole(r.Context(), userID, characterID, domain.CharacterRole(req.Role)); err != nil {
			respondServiceError(w, r, ErrMsgSetRoleFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRoleUpdatedSuccess})
	}
}

// HandleDeleteAccount removes the account, its characters and its session
func HandleDeleteAccount(users user.Service, cfg AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}

		if err := users.DeleteAccount(r.Context(), userID); err != nil {
			respondServiceError(w, r, ErrMsgDeleteAccountFailed, err)
			return
		}

		http.SetCookie(w, auth.ClearCookie(cfg.Secure))
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgAccountDeletedSuccess})
	}
}

// BnetProfileAPI is the part of the Battle.net client the armory lookup
// handlers use.
type BnetProfileAPI interface {
	CharacterProfile(ctx context.Context, realm, name string) (*blizzard.CharacterSummary, error)
	CharacterEquipment(ctx context.Context, realm, name string) (*blizzard.CharacterEquipment, error)
}

// HandleCharacterProfile looks up a character summary on the armory
func HandleCharacterProfile(api BnetProfileAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		realm, ok := GetPathParam(r, w, "realm")
		if !ok {
			return
		}
		name, ok := GetPathParam(r, w, "name")
		if !ok {
			return
		}

		summary, err := api.CharacterProfile(r.Context(), realm, name)
		if err != nil {
			respondServiceError(w, r, "Get character profile", err)
			return
		}

		respondJSON(w, http.StatusOK, summary)
	}
}

// HandleCharacterEquipment looks up a character's equipped gear on the
// armory
func HandleCharacterEquipment(api BnetProfileAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		realm, ok := GetPathParam(r, w, "realm")
		if !ok {
			return
		}
		name, ok := GetPathParam(r, w, "name")
		if !ok {
			return
		}

		equipment, err := api.CharacterEquipment(r.Context(), realm, name)
		if err != nil {
			respondServiceError(w, r, "Get character equipment", err)
			return
		}

		respondJSON(w, http.StatusOK, equipment)
	}
}
