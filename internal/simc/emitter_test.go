package simc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/simc"
)

func TestFormatItem(t *testing.T) {
	tests := []struct {
		name string
		slot string
		item *simc.Item
		want string
	}{
		{
			name: "id only",
			slot: "chest",
			item: &simc.Item{ID: 212044},
			want: "chest=,id=212044",
		},
		{
			name: "all fields",
			slot: "head",
			item: &simc.Item{
				ID:           212039,
				EnchantID:    7931,
				GemIDs:       []int{213743, 213746},
				BonusIDs:     []int{6652, 10356},
				CraftedStats: []int{36, 49},
			},
			want: "head=,id=212039,enchant_id=7931,gem_id=213743/213746,bonus_id=6652/10356,crafted_stats=36/49",
		},
		{
			name: "nil item",
			slot: "head",
			item: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, simc.FormatItem(tt.slot, tt.item))
		})
	}
}

func TestEmit_Structure(t *testing.T) {
	p, err := simc.Parse(sampleExport(), simc.ParseOptions{})
	require.NoError(t, err)

	sel := simc.SelectEquipped(p)
	sel.Add("head", p.Slots["head"].Alternatives[0])
	sel.Add(simc.SlotRings, p.Rings.Alternatives[0])
	combos := simc.GenerateCombinations(sel)
	require.NotEmpty(t, combos)

	out := simc.Emit(p, combos, simc.DefaultOptions())

	assert.Contains(t, out, `rogue="Shadowstep"`)
	assert.Contains(t, out, "level=80")
	assert.Contains(t, out, "spec=subtlety")
	assert.Contains(t, out, `copy="Equipped"`)
	assert.Contains(t, out, "### Currently Equipped Gear")
	assert.Contains(t, out, `copy="Combo 1"`)
	assert.Contains(t, out, "### Gear Combination 1")
	assert.Contains(t, out, "# Simulation Options")
	assert.Contains(t, out, "max_time=300")
}

// Emitted text is itself a valid paste: the checksum verifies and the
// equipped loadout survives with the same slot/item pairs.
func TestEmit_RoundTrip(t *testing.T) {
	p, err := simc.Parse(sampleExport(), simc.ParseOptions{})
	require.NoError(t, err)

	out := simc.Emit(p, nil, simc.DefaultOptions())

	back, err := simc.Parse(out, simc.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, p.Character.Name, back.Character.Name)
	assert.Equal(t, p.Character.Class, back.Character.Class)
	assert.Equal(t, p.Character.Spec, back.Character.Spec)

	for _, slot := range p.SlotOrder {
		require.NotNil(t, back.Slots[slot], slot)
		require.NotNil(t, back.Slots[slot].Equipped, slot)
		assert.Equal(t, p.Slots[slot].Equipped.ID, back.Slots[slot].Equipped.ID, slot)
	}

	require.Len(t, back.Rings.Equipped, len(p.Rings.Equipped))
	for i, ring := range p.Rings.Equipped {
		assert.Equal(t, ring.ID, back.Rings.Equipped[i].ID)
	}
}

func TestEmit_OptionsBlock(t *testing.T) {
	p := &simc.Profile{
		Character: simc.CharacterInfo{Name: "Frosty", Class: "mage", Spec: "frost"},
		Slots:     map[string]*simc.SlotItems{},
		Rings:     &simc.RingSet{},
	}

	opts := simc.DefaultOptions()
	opts.OptimalRaidBuffs = false
	out := simc.Emit(p, nil, opts)

	// Disabling optimal raid buffs emits the override block with each raid
	// buff's camelCase key converted to snake_case.
	assert.Contains(t, out, "optimal_raid=0")
	assert.Contains(t, out, "override.bloodlust=1")
	assert.Contains(t, out, "override.arcane_intellect=1")
	assert.Contains(t, out, "override.power_word_fortitude=1")
	assert.Contains(t, out, "override.hunters_mark=1")
	assert.Contains(t, out, "external_buffs.power_infusion=0")

	opts = simc.DefaultOptions()
	out = simc.Emit(p, nil, opts)

	assert.NotContains(t, out, "optimal_raid=0")
	assert.NotContains(t, out, "override.bloodlust")
	// External buffs are emitted either way.
	assert.Contains(t, out, "external_buffs.power_infusion=0")
}

func TestEmit_ChecksumValid(t *testing.T) {
	p := &simc.Profile{
		Character: simc.CharacterInfo{Name: "Frosty", Class: "mage", Spec: "frost", Level: 80},
		Slots:     map[string]*simc.SlotItems{},
		Rings:     &simc.RingSet{},
	}

	out := simc.Emit(p, nil, simc.DefaultOptions())

	_, err := simc.Parse(out, simc.ParseOptions{})
	assert.NoError(t, err)
}

func TestEmit_CombinationBlocksParseBack(t *testing.T) {
	p, err := simc.Parse(sampleExport(), simc.ParseOptions{})
	require.NoError(t, err)

	sel := simc.SelectEquipped(p)
	sel.Add("head", p.Slots["head"].Alternatives[0])
	combos := simc.GenerateCombinations(sel)
	require.Len(t, combos, 2)

	out := simc.Emit(p, combos, simc.DefaultOptions())

	back, err := simc.Parse(out, simc.ParseOptions{})
	require.NoError(t, err)

	// The alternative head from the combination blocks is recoverable.
	require.NotNil(t, back.Slots["head"])
	assert.Equal(t, 212039, back.Slots["head"].Equipped.ID)
	altIDs := make([]int, 0, len(back.Slots["head"].Alternatives))
	for _, alt := range back.Slots["head"].Alternatives {
		altIDs = append(altIDs, alt.ID)
	}
	assert.Contains(t, altIDs, 211512)
}
