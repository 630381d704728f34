package simc

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatItem serializes one slot assignment into the addon's line syntax:
// slot=,id=...,enchant_id=...,gem_id=a/b,bonus_id=x/y,crafted_stats=...
func FormatItem(slot string, item *Item) string {
	if item == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s=,id=%d", slot, item.ID)

	if item.EnchantID != 0 {
		fmt.Fprintf(&b, ",enchant_id=%d", item.EnchantID)
	}
	if len(item.GemIDs) > 0 {
		fmt.Fprintf(&b, ",gem_id=%s", joinInts(item.GemIDs))
	}
	if len(item.BonusIDs) > 0 {
		fmt.Fprintf(&b, ",bonus_id=%s", joinInts(item.BonusIDs))
	}
	if len(item.CraftedStats) > 0 {
		fmt.Fprintf(&b, ",crafted_stats=%s", joinInts(item.CraftedStats))
	}

	return b.String()
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "/")
}

// characterHeader emits the class="Name" assignment followed by the
// level/race/region/server/spec fields that are present.
func characterHeader(info CharacterInfo) string {
	var lines []string

	if info.Class != "" && info.Name != "" {
		lines = append(lines, fmt.Sprintf("%s=%q", info.Class, info.Name))
	}
	if info.Level != 0 {
		lines = append(lines, fmt.Sprintf("level=%d", info.Level))
	}
	if info.Race != "" {
		lines = append(lines, "race="+info.Race)
	}
	if info.Region != "" {
		lines = append(lines, "region="+info.Region)
	}
	if info.Server != "" {
		lines = append(lines, "server="+info.Server)
	}
	if info.Spec != "" {
		lines = append(lines, "spec="+info.Spec)
	}

	return strings.Join(lines, "\n")
}

// EquippedCombination flattens the profile's currently equipped gear into a
// combination, splitting the merged ring pool back into finger1/finger2.
func EquippedCombination(p *Profile) Combination {
	var combo Combination
	for _, slot := range p.SlotOrder {
		set := p.Slots[slot]
		if set == nil || set.Equipped == nil {
			continue
		}
		combo = append(combo, Assignment{Slot: slot, Item: set.Equipped})
	}
	if p.Rings == nil {
		return combo
	}
	if len(p.Rings.Equipped) > 0 {
		combo = append(combo, Assignment{Slot: SlotFinger1, Item: p.Rings.Equipped[0]})
	}
	if len(p.Rings.Equipped) > 1 {
		combo = append(combo, Assignment{Slot: SlotFinger2, Item: p.Rings.Equipped[1]})
	}
	return combo
}

func writeCombination(b *strings.Builder, combo Combination) {
	for _, a := range combo {
		// The name comment uses the same "# Name (ilvl)" shape the addon
		// writes, so emitted blocks survive a re-parse.
		name := a.Item.Name
		if name == "" {
			name = "Item"
		}
		fmt.Fprintf(b, "# %s (%d)\n", name, a.Item.ItemLevel)
		b.WriteString(FormatItem(a.Slot, a.Item))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

// Emit serializes a profile plus alternative combinations into simc input
// text. The as-equipped loadout always comes first as copy="Equipped",
// followed by numbered copy="Combo N" blocks and the simulation options. A
// fresh checksum line is appended so emitted text survives a re-parse.
func Emit(p *Profile, combos []Combination, opts Options) string {
	var b strings.Builder

	b.WriteString(characterHeader(p.Character))
	b.WriteString("\n\n")

	if len(p.Preserved) > 0 {
		b.WriteString(strings.Join(p.Preserved, "\n"))
		b.WriteString("\n\n")
	}

	if equipped := EquippedCombination(p); len(equipped) > 0 {
		b.WriteString("copy=\"Equipped\"\n")
		b.WriteString("### Currently Equipped Gear\n")
		writeCombination(&b, equipped)
	}

	for i, combo := range combos {
		fmt.Fprintf(&b, "copy=%q\n", fmt.Sprintf("Combo %d", i+1))
		fmt.Fprintf(&b, "### Gear Combination %d\n", i+1)
		writeCombination(&b, combo)
	}

	b.WriteString(formatOptions(opts))

	// Emitted text must itself parse, so finish with a valid checksum over
	// everything written so far.
	b.WriteByte('\n')
	sum := Checksum(b.String())
	fmt.Fprintf(&b, "%s %x\n", checksumMarker, sum)

	return b.String()
}

// formatOptions renders the trailing "# Simulation Options" block:
// max_time, the optimal_raid override block when optimal raid buffs are
// disabled, and the external buff flags which are always present.
func formatOptions(opts Options) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("max_time=%d", opts.MaxTime))

	if !opts.OptimalRaidBuffs {
		lines = append(lines, "optimal_raid=0")
		for _, buff := range opts.Buffs {
			if buff.Category == BuffCategoryOverride {
				lines = append(lines, formatBuff(buff))
			}
		}
	}

	for _, buff := range opts.Buffs {
		if buff.Category == BuffCategoryExternal {
			lines = append(lines, formatBuff(buff))
		}
	}

	return "# Simulation Options\n" + strings.Join(lines, "\n")
}

func formatBuff(buff Buff) string {
	value := 0
	if buff.Enabled {
		value = 1
	}
	return fmt.Sprintf("%s.%s=%d", buff.Category, snakeCase(buff.Key), value)
}
