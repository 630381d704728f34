// Package simc parses SimulationCraft addon exports, validates gear against
// class/spec constraints, enumerates gear combinations, and emits profile
// text for simulation runs.
package simc

// Item is one piece of gear parsed from an addon export or item data.
type Item struct {
	ID           int    `json:"id"`
	Name         string `json:"name,omitempty"`
	EnchantID    int    `json:"enchant_id,omitempty"`
	GemIDs       []int  `json:"gem_id,omitempty"`
	BonusIDs     []int  `json:"bonus_id,omitempty"`
	CraftedStats []int  `json:"crafted_stats,omitempty"`
	ItemLevel    int    `json:"item_level,omitempty"`

	// Uniqueness metadata comes from item data, not the export text.
	// Items are compared by ID only; enchant/gem/bonus variance is ignored
	// when de-duplicating.
	UniqueEquipped         bool   `json:"unique_equipped,omitempty"`
	UniqueEquippedCategory string `json:"unique_equipped_category,omitempty"`
	UniqueEquippedLimit    int    `json:"unique_equipped_limit,omitempty"`
}

// SlotItems holds the equipped item and bag alternatives for one slot.
type SlotItems struct {
	Equipped     *Item   `json:"equipped"`
	Alternatives []*Item `json:"alternatives"`
}

// RingSet merges finger1/finger2 into one pool. Any two of its items can
// form a ring pair; fewer than two selected rings yields no combinations.
type RingSet struct {
	Equipped     []*Item `json:"equipped"`
	Alternatives []*Item `json:"alternatives"`
}

// CharacterInfo describes the character a profile belongs to.
type CharacterInfo struct {
	Name   string `json:"name"`
	Class  string `json:"class"`
	Spec   string `json:"spec"`
	Level  int    `json:"level,omitempty"`
	Race   string `json:"race,omitempty"`
	Region string `json:"region,omitempty"`
	Server string `json:"server,omitempty"`
	// Realm is the display realm from the export header, which may differ
	// from the server= field in spelling and case.
	Realm string `json:"realm,omitempty"`
}

// Profile is a fully parsed addon export.
type Profile struct {
	Character CharacterInfo
	// Slots holds every non-ring slot. SlotOrder records first-seen order
	// so emitted profiles are deterministic.
	Slots     map[string]*SlotItems
	SlotOrder []string
	Rings     *RingSet
	// Preserved keeps comment, talents= and professions= lines from the
	// original paste for re-emission. The checksum line is excluded.
	Preserved []string
}

// Slot names with special handling
const (
	SlotFinger1  = "finger1"
	SlotFinger2  = "finger2"
	SlotRings    = "rings"
	SlotMainHand = "main_hand"
	SlotOffHand  = "off_hand"
	SlotTrinket1 = "trinket1"
	SlotTrinket2 = "trinket2"
)

// SharedSlotPools groups twin slots whose items are selectable as one pool.
// Combinations are still generated per fixed slot key.
var SharedSlotPools = [][2]string{
	{SlotTrinket1, SlotTrinket2},
	{SlotMainHand, SlotOffHand},
}

// TwinSlot returns the other half of a shared pool for slots that have one.
func TwinSlot(slot string) (string, bool) {
	for _, pool := range SharedSlotPools {
		switch slot {
		case pool[0]:
			return pool[1], true
		case pool[1]:
			return pool[0], true
		}
	}
	return "", false
}

// SlotCandidates returns every item selectable for a slot: its own equipped
// item and alternatives, plus the twin slot's per SharedSlotPools, so a
// trinket equipped in trinket2 can be chosen for trinket1 and vice versa.
// De-duplicated by ID with the slot's own items first, keeping the order
// stable.
func SlotCandidates(p *Profile, slot string) []*Item {
	var out []*Item
	appendSet := func(set *SlotItems) {
		if set == nil {
			return
		}
		if set.Equipped != nil && !containsItemID(out, set.Equipped.ID) {
			out = append(out, set.Equipped)
		}
		for _, item := range set.Alternatives {
			if item != nil && !containsItemID(out, item.ID) {
				out = append(out, item)
			}
		}
	}

	appendSet(p.Slots[slot])
	if twin, ok := TwinSlot(slot); ok {
		appendSet(p.Slots[twin])
	}
	return out
}
