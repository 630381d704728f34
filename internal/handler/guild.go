package handler

import (
	"net/http"

	"github.com/wowlab/guildsim/internal/guild"
)

// SyncGuildRequest identifies the guild to pull from the game API
type SyncGuildRequest struct {
	Region string `json:"region" validate:"required,region"`
	Realm  string `json:"realm" validate:"required"`
	Slug   string `json:"slug" validate:"required"`
}

// HandleSyncGuild pulls the guild's member list from the game API
func HandleSyncGuild(guilds guild.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := RequireUserID(r, w); !ok {
			return
		}

		var req SyncGuildRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sync guild"); err != nil {
			return
		}

		synced, err := guilds.Sync(r.Context(), req.Region, req.Realm, req.Slug)
		if err != nil {
			respondServiceError(w, r, ErrMsgSyncGuildFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, synced)
	}
}

// HandleGetGuild returns a guild by ID
func HandleGetGuild(guilds guild.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID, ok := GetPathParam(r, w, "guildID")
		if !ok {
			return
		}

		g, err := guilds.GetByID(r.Context(), guildID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetGuildFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, g)
	}
}

// HandleGuildMembers returns the synced member list
func HandleGuildMembers(guilds guild.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID, ok := GetPathParam(r, w, "guildID")
		if !ok {
			return
		}

		members, err := guilds.Members(r.Context(), guildID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetMembersFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: members})
	}
}

// SetRosterRankRequest changes which guild ranks may manage rosters
type SetRosterRankRequest struct {
	Rank int `json:"rank" validate:"min=0,max=20"`
}

// HandleSetRosterRank updates the roster creation rank threshold. Only the
// guild master may change it.
func HandleSetRosterRank(guilds guild.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := RequireUserID(r, w)
		if !ok {
			return
		}
		guildID, ok := GetPathParam(r, w, "guildID")
		if !ok {
			return
		}

		var req SetRosterRankRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set roster rank"); err != nil {
			return
		}

		if err := guilds.SetRosterCreationRank(r.Context(), userID, guildID, req.Rank); err != nil {
			respondServiceError(w, r, ErrMsgSetRosterRankFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRosterRankUpdatedOK})
	}
}
