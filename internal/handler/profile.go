package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/metrics"
	"github.com/wowlab/guildsim/internal/simc"
)

// ParseProfileRequest carries a pasted addon export, base64-encoded to
// survive JSON framing.
type ParseProfileRequest struct {
	SimcInput string `json:"simc_input" validate:"required"`
}

// ParsedProfileResponse is the parsed gear layout returned to the frontend
type ParsedProfileResponse struct {
	Character simc.CharacterInfo         `json:"character"`
	Slots     map[string]*simc.SlotItems `json:"slots"`
	SlotOrder []string                   `json:"slot_order"`
	Rings     *simc.RingSet              `json:"rings"`
	// EquippedCombinations is the combination count with only the
	// currently equipped gear selected, always 1 for a complete profile.
	EquippedCombinations int `json:"equipped_combinations"`
}

// SelectionRequest pairs a pasted export with the chosen item IDs per
// slot. Ring selections go under the "rings" key. A nil selection means
// equipped gear only.
type SelectionRequest struct {
	SimcInput string           `json:"simc_input" validate:"required"`
	Selection map[string][]int `json:"selection,omitempty"`
	// MaxTime overrides the fight length in seconds when generating
	MaxTime int `json:"max_time,omitempty" validate:"omitempty,min=10,max=3600"`
}

// CombinationCountResponse reports how many loadouts a selection yields
type CombinationCountResponse struct {
	CombinationCount int `json:"combination_count"`
}

// GenerateProfilesResponse carries the emitted multi-profile simc input
type GenerateProfilesResponse struct {
	CombinationCount int `json:"combination_count"`
	// SimcInput is the generated profile text, base64-encoded
	SimcInput string `json:"simc_input"`
}

// HandleParseProfile parses an addon export and returns the gear layout
func HandleParseProfile(bus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ParseProfileRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Parse profile"); err != nil {
			return
		}

		profile, err := decodeAndParse(req.SimcInput, w, r)
		if err != nil {
			return
		}

		char := profile.Character
		metrics.ProfilesParsed.WithLabelValues(char.Class, char.Spec).Inc()
		if bus != nil {
			ringCount := len(profile.Rings.Equipped) + len(profile.Rings.Alternatives)
			if err := bus.Publish(r.Context(), event.NewProfileParsedEvent(
				char.Name, char.Class, char.Spec, len(profile.SlotOrder), ringCount)); err != nil {
				logger.FromContext(r.Context()).Warn("failed to publish profile parsed event", "error", err)
			}
		}

		respondJSON(w, http.StatusOK, ParsedProfileResponse{
			Character:            char,
			Slots:                profile.Slots,
			SlotOrder:            profile.SlotOrder,
			Rings:                profile.Rings,
			EquippedCombinations: simc.CombinationCount(simc.SelectEquipped(profile)),
		})
	}
}

// HandleCombinationCount counts the loadouts a selection would produce,
// letting the frontend warn before a huge generate request.
func HandleCombinationCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Count combinations"); err != nil {
			return
		}

		profile, err := decodeAndParse(req.SimcInput, w, r)
		if err != nil {
			return
		}

		sel, err := buildSelection(profile, req.Selection)
		if err != nil {
			respondServiceError(w, r, ErrMsgInvalidSelection, err)
			return
		}

		respondJSON(w, http.StatusOK, CombinationCountResponse{
			CombinationCount: simc.CombinationCount(sel),
		})
	}
}

// HandleGenerateProfiles enumerates the selected loadouts and emits a
// multi-profile simc input ready for simulation
func HandleGenerateProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Generate profiles"); err != nil {
			return
		}

		profile, err := decodeAndParse(req.SimcInput, w, r)
		if err != nil {
			return
		}

		sel, err := buildSelection(profile, req.Selection)
		if err != nil {
			respondServiceError(w, r, ErrMsgInvalidSelection, err)
			return
		}

		combos := simc.GenerateCombinations(sel)
		if len(combos) == 0 {
			respondServiceError(w, r, ErrMsgGenerateFailed, domain.ErrNoCombinations)
			return
		}

		opts := simc.DefaultOptions()
		if req.MaxTime > 0 {
			opts.MaxTime = req.MaxTime
		}

		text := simc.Emit(profile, combos, opts)
		metrics.CombinationsGenerated.Add(float64(len(combos)))

		respondJSON(w, http.StatusOK, GenerateProfilesResponse{
			CombinationCount: len(combos),
			SimcInput:        base64.StdEncoding.EncodeToString([]byte(text)),
		})
	}
}

// decodeAndParse base64-decodes and parses a pasted export, writing the
// error response itself on failure.
func decodeAndParse(encoded string, w http.ResponseWriter, r *http.Request) (*simc.Profile, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		respondError(w, http.StatusBadRequest, "simc_input is not valid base64")
		return nil, err
	}

	profile, err := simc.Parse(string(raw), simc.ParseOptions{})
	if err != nil {
		respondServiceError(w, r, ErrMsgParseProfileFailed, err)
		return nil, err
	}
	return profile, nil
}

// buildSelection resolves a slot->itemID selection against the parsed
// profile. A nil selection means equipped gear only.
func buildSelection(profile *simc.Profile, selection map[string][]int) (*simc.Selection, error) {
	if selection == nil {
		return simc.SelectEquipped(profile), nil
	}

	sel := simc.NewSelection()
	for _, slot := range profile.SlotOrder {
		ids := selection[slot]
		if len(ids) == 0 {
			continue
		}
		if profile.Slots[slot] == nil {
			return nil, fmt.Errorf("%w: unknown slot %q", domain.ErrInvalidInput, slot)
		}
		// Twin slots share one pool, so trinket1 may select an item the
		// export lists under trinket2.
		candidates := simc.SlotCandidates(profile, slot)
		for _, id := range ids {
			item := findItem(candidates, id)
			if item == nil {
				return nil, fmt.Errorf("%w: item %d is not available in slot %q", domain.ErrInvalidInput, id, slot)
			}
			sel.Add(slot, item)
		}
	}

	ringCandidates := append(append([]*simc.Item{}, profile.Rings.Equipped...), profile.Rings.Alternatives...)
	for _, id := range selection[simc.SlotRings] {
		item := findItem(ringCandidates, id)
		if item == nil {
			return nil, fmt.Errorf("%w: ring %d is not in the profile", domain.ErrInvalidInput, id)
		}
		sel.Add(simc.SlotRings, item)
	}

	return sel, nil
}

func findItem(items []*simc.Item, id int) *simc.Item {
	for _, item := range items {
		if item != nil && item.ID == id {
			return item
		}
	}
	return nil
}
