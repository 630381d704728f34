package handler

import (
	"context"
	"net/http"
	"strconv"
)

// ItemMediaAPI resolves item icon URLs through the game API.
type ItemMediaAPI interface {
	ItemMedia(ctx context.Context, itemID int) (string, error)
}

// ItemMediaResponse carries one item's icon URL
type ItemMediaResponse struct {
	ItemID  int    `json:"item_id"`
	IconURL string `json:"icon_url"`
}

// HandleItemMedia returns the icon URL for an item ID. Responses are
// cached upstream under the static tier.
func HandleItemMedia(api ItemMediaAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := GetPathParam(r, w, "itemID")
		if !ok {
			return
		}

		itemID, err := strconv.Atoi(raw)
		if err != nil || itemID <= 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidItemID)
			return
		}

		iconURL, err := api.ItemMedia(r.Context(), itemID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetItemMediaFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, ItemMediaResponse{ItemID: itemID, IconURL: iconURL})
	}
}
