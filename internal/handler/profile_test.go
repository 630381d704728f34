package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/simc"
)

// sampleExport builds a small addon paste with a valid checksum.
func sampleExport() string {
	body := `# Shadowstep - Subtlety - Jan 15 2025 - US/Mal'Ganis
# SimC Addon 11.0.5

rogue="Shadowstep"
level=80
region=us
server=malganis
spec=subtlety

# Mask of the Night (639)
head=,id=212039,enchant_id=7931
# Band of Dusk (639)
finger1=,id=221141
# Seal of Stars (636)
finger2=,id=228411

### Gear from Bags
# Cowl of Shadows (626)
# head=,id=211512
# Loop of Fate (630)
# finger1=,id=178824
`
	return body + fmt.Sprintf("# Checksum: %x", simc.Checksum(body))
}

func encodedExport() string {
	return base64.StdEncoding.EncodeToString([]byte(sampleExport()))
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func TestHandleParseProfile(t *testing.T) {
	bus := event.NewMemoryBus()
	var parsed event.Event
	bus.Subscribe(event.ProfileParsed, func(ctx context.Context, ev event.Event) error {
		parsed = ev
		return nil
	})

	rec := postJSON(t, HandleParseProfile(bus), "/api/profile/parse",
		ParseProfileRequest{SimcInput: encodedExport()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ParsedProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Shadowstep", resp.Character.Name)
	assert.Equal(t, "rogue", resp.Character.Class)
	assert.Equal(t, "subtlety", resp.Character.Spec)

	head := resp.Slots["head"]
	require.NotNil(t, head)
	assert.Equal(t, 212039, head.Equipped.ID)
	require.Len(t, head.Alternatives, 1)

	require.Len(t, resp.Rings.Equipped, 2)
	require.Len(t, resp.Rings.Alternatives, 1)
	assert.Equal(t, 1, resp.EquippedCombinations)

	payload, ok := parsed.Payload.(event.ProfileParsedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, "Shadowstep", payload.CharacterName)
}

func TestHandleParseProfile_BadChecksum(t *testing.T) {
	tampered := strings.Replace(sampleExport(), "id=212039", "id=212040", 1)
	encoded := base64.StdEncoding.EncodeToString([]byte(tampered))

	rec := postJSON(t, HandleParseProfile(nil), "/api/profile/parse",
		ParseProfileRequest{SimcInput: encoded})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgChecksumMismatchErr, resp.Error)
}

func TestHandleParseProfile_NotBase64(t *testing.T) {
	rec := postJSON(t, HandleParseProfile(nil), "/api/profile/parse",
		ParseProfileRequest{SimcInput: "definitely not base64!!"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCombinationCount(t *testing.T) {
	// Two head items and three rings selected: 2 * C(3,2) = 6.
	rec := postJSON(t, HandleCombinationCount(), "/api/profile/combinations", SelectionRequest{
		SimcInput: encodedExport(),
		Selection: map[string][]int{
			"head":  {212039, 211512},
			"rings": {221141, 228411, 178824},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CombinationCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.CombinationCount)
}

func TestHandleCombinationCount_UnknownItem(t *testing.T) {
	rec := postJSON(t, HandleCombinationCount(), "/api/profile/combinations", SelectionRequest{
		SimcInput: encodedExport(),
		Selection: map[string][]int{
			"head":  {999999},
			"rings": {221141, 228411},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// trinketExport builds a paste where each trinket slot has one equipped
// item and nothing in bags.
func trinketExport() string {
	body := `# Shadowstep - Subtlety - Jan 15 2025 - US/Mal'Ganis
# SimC Addon 11.0.5

rogue="Shadowstep"
level=80
region=us
server=malganis
spec=subtlety

# Skarmorak Shard (636)
trinket1=,id=219314
# Signet of the Priory (639)
trinket2=,id=219308
# Band of Dusk (639)
finger1=,id=221141
# Seal of Stars (636)
finger2=,id=228411
`
	return body + fmt.Sprintf("# Checksum: %x", simc.Checksum(body))
}

func TestHandleCombinationCount_SharedTrinketPool(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(trinketExport()))

	// Either trinket slot may select the item equipped in the other, so the
	// raw count is 2 * 2 * C(2,2) = 4.
	rec := postJSON(t, HandleCombinationCount(), "/api/profile/combinations", SelectionRequest{
		SimcInput: encoded,
		Selection: map[string][]int{
			"trinket1": {219314, 219308},
			"trinket2": {219308, 219314},
			"rings":    {221141, 228411},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CombinationCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.CombinationCount)
}

func TestHandleGenerateProfiles_SharedTrinketPool(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(trinketExport()))

	// Generation drops the loadouts that repeat a trinket, leaving the two
	// orderings of the swapped pair.
	rec := postJSON(t, HandleGenerateProfiles(), "/api/profile/generate", SelectionRequest{
		SimcInput: encoded,
		Selection: map[string][]int{
			"trinket1": {219314, 219308},
			"trinket2": {219308, 219314},
			"rings":    {221141, 228411},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateProfilesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.CombinationCount)
}

func TestHandleGenerateProfiles(t *testing.T) {
	rec := postJSON(t, HandleGenerateProfiles(), "/api/profile/generate", SelectionRequest{
		SimcInput: encodedExport(),
		Selection: map[string][]int{
			"head":  {212039, 211512},
			"rings": {221141, 228411},
		},
		MaxTime: 120,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateProfilesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.CombinationCount)

	text, err := base64.StdEncoding.DecodeString(resp.SimcInput)
	require.NoError(t, err)
	assert.Contains(t, string(text), "copy=")
	assert.Contains(t, string(text), "max_time=120")
}

func TestHandleGenerateProfiles_NoRingPair(t *testing.T) {
	// A single selected ring can never form a pair.
	rec := postJSON(t, HandleGenerateProfiles(), "/api/profile/generate", SelectionRequest{
		SimcInput: encodedExport(),
		Selection: map[string][]int{
			"head":  {212039},
			"rings": {221141},
		},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgNoCombinationsErr, resp.Error)
}
