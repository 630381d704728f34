package handler

import (
	"context"
	"net/http"

	"github.com/wowlab/guildsim/internal/blizzard"
)

// RealmIndexAPI lists the realms for the configured region.
type RealmIndexAPI interface {
	RealmIndex(ctx context.Context) ([]blizzard.Realm, error)
}

// RealmIndexResponse carries the realm list backing realm autocomplete
type RealmIndexResponse struct {
	Realms []blizzard.Realm `json:"realms"`
}

// HandleRealmIndex returns the region's realm list. Responses are cached
// upstream under the static tier.
func HandleRealmIndex(api RealmIndexAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		realms, err := api.RealmIndex(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgGetRealmsFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, RealmIndexResponse{Realms: realms})
	}
}
