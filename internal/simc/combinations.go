package simc

// Assignment binds one item to one slot inside a combination.
type Assignment struct {
	Slot string `json:"slot"`
	Item *Item  `json:"item"`
}

// Combination is one complete loadout: one item per participating slot.
// Assignments keep slot order so generated output is deterministic.
type Combination []Assignment

// Get returns the item assigned to a slot, or nil.
func (c Combination) Get(slot string) *Item {
	for _, a := range c {
		if a.Slot == slot {
			return a.Item
		}
	}
	return nil
}

// Selection holds the per-slot item lists chosen for combination
// generation. Slots iterate in insertion order and items de-duplicate by
// ID, so the same selection state always produces the same ordered
// combination list.
type Selection struct {
	order []string
	items map[string][]*Item
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{items: make(map[string][]*Item)}
}

// Add appends an item to a slot's selected list. Duplicate IDs within a
// slot are ignored. Ring items go under the "rings" slot key.
func (s *Selection) Add(slot string, item *Item) {
	if item == nil {
		return
	}
	if _, ok := s.items[slot]; !ok {
		s.order = append(s.order, slot)
	}
	if containsItemID(s.items[slot], item.ID) {
		return
	}
	s.items[slot] = append(s.items[slot], item)
}

// Remove drops an item ID from a slot's selected list.
func (s *Selection) Remove(slot string, itemID int) {
	list := s.items[slot]
	for i, it := range list {
		if it.ID == itemID {
			s.items[slot] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Items returns the selected items for a slot.
func (s *Selection) Items(slot string) []*Item {
	return s.items[slot]
}

// Slots returns the non-ring slot keys in insertion order.
func (s *Selection) Slots() []string {
	out := make([]string, 0, len(s.order))
	for _, slot := range s.order {
		if slot == SlotRings {
			continue
		}
		out = append(out, slot)
	}
	return out
}

// SelectEquipped builds the initial selection state from a parsed profile:
// every slot's equipped item plus both equipped rings.
func SelectEquipped(p *Profile) *Selection {
	sel := NewSelection()
	for _, slot := range p.SlotOrder {
		if set := p.Slots[slot]; set != nil && set.Equipped != nil {
			sel.Add(slot, set.Equipped)
		}
	}
	for _, ring := range p.Rings.Equipped {
		sel.Add(SlotRings, ring)
	}
	return sel
}

// ringPairs enumerates every unordered pair of selected rings as a
// (finger1, finger2) assignment.
func ringPairs(rings []*Item) [][2]*Item {
	var pairs [][2]*Item
	for i := 0; i < len(rings); i++ {
		for j := i + 1; j < len(rings); j++ {
			pairs = append(pairs, [2]*Item{rings[i], rings[j]})
		}
	}
	return pairs
}

// GenerateCombinations produces every valid loadout from the selection.
//
// Rings gate the whole product: with fewer than two selected rings there
// are no ring pairs and therefore zero combinations overall. Every other
// slot contributes its full selected list to the cartesian product, and
// each non-ring assignment is paired with every ring pair. Combinations
// that repeat an item ID across slots or violate unique-equipped rules are
// filtered out.
func GenerateCombinations(sel *Selection) []Combination {
	pairs := ringPairs(sel.Items(SlotRings))
	if len(pairs) == 0 {
		return nil
	}

	slots := sel.Slots()

	var all []Combination
	var walk func(idx int, current Combination)
	walk = func(idx int, current Combination) {
		if idx == len(slots) {
			for _, pair := range pairs {
				combo := make(Combination, len(current), len(current)+2)
				copy(combo, current)
				combo = append(combo,
					Assignment{Slot: SlotFinger1, Item: pair[0]},
					Assignment{Slot: SlotFinger2, Item: pair[1]},
				)
				all = append(all, combo)
			}
			return
		}

		slot := slots[idx]
		for _, item := range sel.Items(slot) {
			walk(idx+1, append(current, Assignment{Slot: slot, Item: item}))
		}
	}
	walk(0, nil)

	valid := all[:0]
	for _, combo := range all {
		if !violatesUniqueConstraints(combo) {
			valid = append(valid, combo)
		}
	}
	return valid
}

// CombinationCount returns how many combinations GenerateCombinations
// would produce, without the post-filtering.
func CombinationCount(sel *Selection) int {
	rings := len(sel.Items(SlotRings))
	count := rings * (rings - 1) / 2
	if count == 0 {
		return 0
	}
	for _, slot := range sel.Slots() {
		count *= len(sel.Items(slot))
	}
	return count
}

// violatesUniqueConstraints reports whether a combination repeats an item
// ID across slots, repeats a unique-equipped item, or exceeds a
// unique-equipped category's limit (default 1).
func violatesUniqueConstraints(combo Combination) bool {
	usedIDs := make(map[int]bool)
	uniqueIDs := make(map[int]bool)
	categoryCount := make(map[string]int)

	for _, a := range combo {
		if a.Item == nil {
			continue
		}

		if usedIDs[a.Item.ID] {
			return true
		}
		usedIDs[a.Item.ID] = true

		if a.Item.UniqueEquipped {
			if uniqueIDs[a.Item.ID] {
				return true
			}
			uniqueIDs[a.Item.ID] = true
		}

		if cat := a.Item.UniqueEquippedCategory; cat != "" {
			categoryCount[cat]++
			limit := a.Item.UniqueEquippedLimit
			if limit == 0 {
				limit = 1
			}
			if categoryCount[cat] > limit {
				return true
			}
		}
	}

	return false
}
