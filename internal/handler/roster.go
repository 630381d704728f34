package handler

import (
	"net/http"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/roster"
)

// CreateRosterRequest creates a named raid lineup inside a guild
type CreateRosterRequest struct {
	GuildID string `json:"guild_id" validate:"required"`
	Name    string `json:"name" validate:"required,max=64"`
	Size    int    `json:"size" validate:"required,min=10,max=60"`
}

// RosterResponse pairs a roster with its member entries
type RosterResponse struct {
	Roster     *domain.Roster           `json:"roster"`
	Characters []domain.RosterCharacter `json:"characters"`
}

// HandleCreateRoster creates a roster. Requires officer rank in the guild.
func HandleCreateRoster(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}

		var req CreateRosterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create roster"); err != nil {
			return
		}

		created, err := rosters.Create(r.Context(), userID, req.GuildID, req.Name, req.Size)
		if err != nil {
			respondServiceError(w, r, ErrMsgCreateRosterFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, created)
	}
}

// HandleGetRoster returns a roster and its member entries
func HandleGetRoster(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rosterID, ok := GetPathParam(r, w, "rosterID")
		if !ok {
			return
		}

		got, entries, err := rosters.Get(r.Context(), rosterID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetRosterFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, RosterResponse{Roster: got, Characters: entries})
	}
}

// HandleListRosters lists a guild's rosters
func HandleListRosters(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID, ok := GetPathParam(r, w, "guildID")
		if !ok {
			return
		}

		list, err := rosters.ListByGuild(r.Context(), guildID)
		if err != nil {
			respondServiceError(w, r, ErrMsgListRostersFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: list})
	}
}

// RenameRosterRequest renames a roster
type RenameRosterRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// HandleRenameRoster renames a roster. Requires officer rank.
func HandleRenameRoster(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}
		rosterID, ok := GetPathParam(r, w, "rosterID")
		if !ok {
			return
		}

		var req RenameRosterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Rename roster"); err != nil {
			return
		}

		if err := rosters.Rename(r.Context(), userID, rosterID, req.Name); err != nil {
			respondServiceError(w, r, ErrMsgRenameRosterFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRosterRenamedSuccess})
	}
}

// HandleDeleteRoster deletes a roster. Requires officer rank.
func HandleDeleteRoster(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}
		rosterID, ok := GetPathParam(r, w, "rosterID")
		if !ok {
			return
		}

		if err := rosters.Delete(r.Context(), userID, rosterID); err != nil {
			respondServiceError(w, r, ErrMsgDeleteRosterFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRosterDeletedSuccess})
	}
}

// AddRosterCharacterRequest places a guild character on a roster
type AddRosterCharacterRequest struct {
	CharacterID string `json:"character_id" validate:"required"`
	Role        string `json:"role" validate:"required,role"`
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE BENCH"`
}

// HandleAddRosterCharacter adds a character to a roster. Requires officer
// rank; fails when the roster is at capacity.
func HandleAddRosterCharacter(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}
		rosterID, ok := GetPathParam(r, w, "rosterID")
		if !ok {
			return
		}

		var req AddRosterCharacterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add roster character"); err != nil {
			return
		}

		err := rosters.AddCharacter(r.Context(), userID, rosterID, req.CharacterID,
			domain.CharacterRole(req.Role), domain.RosterStatus(req.Status))
		if err != nil {
			respondServiceError(w, r, ErrMsgAddToRosterFailed, err)
			return
		}

		respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgCharacterAddedSuccess})
	}
}

// HandleRemoveRosterCharacter removes a character from a roster
func HandleRemoveRosterCharacter(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}
		rosterID, ok := GetPathParam(r, w, "rosterID")
		if !ok {
			return
		}
		characterID, ok := GetPathParam(r, w, "characterID")
		if !ok {
			return
		}

		if err := rosters.RemoveCharacter(r.Context(), userID, rosterID, characterID); err != nil {
			respondServiceError(w, r, ErrMsgRemoveFromRosterFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCharacterRemovedOK})
	}
}

// UpdateRosterCharacterRequest changes a roster entry's role or status
type UpdateRosterCharacterRequest struct {
	Role   string `json:"role" validate:"required,role"`
	Status string `json:"status" validate:"required,oneof=ACTIVE BENCH"`
}

// HandleUpdateRosterCharacter updates a roster entry's role or status
func HandleUpdateRosterCharacter(rosters roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}
		rosterID, ok := GetPathParam(r, w, "rosterID")
		if !ok {
			return
		}
		characterID, ok := GetPathParam(r, w, "characterID")
		if !ok {
			return
		}

		var req UpdateRosterCharacterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update roster character"); err != nil {
			return
		}

		entry := &domain.RosterCharacter{
			RosterID:    rosterID,
			CharacterID: characterID,
			Role:        domain.CharacterRole(req.Role),
			Status:      domain.RosterStatus(req.Status),
		}
		if err := rosters.UpdateCharacter(r.Context(), userID, entry); err != nil {
			respondServiceError(w, r, ErrMsgUpdateRosterCharFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, entry)
	}
}
