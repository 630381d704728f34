package simc

import (
	"fmt"
	"hash/adler32"
	"regexp"
	"strconv"
	"strings"

	"github.com/wowlab/guildsim/internal/domain"
)

// DefaultSkippedSlots lists cosmetic slots dropped from parsed output.
var DefaultSkippedSlots = []string{"tabard", "shirt"}

// ParseOptions adjust parsing behavior.
type ParseOptions struct {
	// SkippedSlots lists slots dropped entirely from the output.
	// Nil means DefaultSkippedSlots; an empty non-nil slice keeps everything.
	SkippedSlots []string
}

const (
	checksumMarker = "# Checksum:"
	bagsMarker     = "### Gear from Bags"
	addInfoMarker  = "### Additional Character Info"
)

var (
	// First line pattern: # Character_Name - Spec_Name - Date - Region/Realm
	headerRe = regexp.MustCompile(`# ([^-]+) - ([^-]+) - [^-]+ - [^/]+/(.+)`)
	// Fallback when the full header pattern fails: trailing /realm token
	realmRe    = regexp.MustCompile(`/([^/\n]+)$`)
	checksumRe = regexp.MustCompile(`# Checksum: ([a-fA-F0-9]+)`)
	ilvlRe     = regexp.MustCompile(`\((\d+)\)$`)
	// Item data line, possibly commented out for bag items
	itemLineRe = regexp.MustCompile(`^#?\s*([\w]+)=,id=(\d+)(?:,enchant_id=(\d+))?(?:,gem_id=([^,]+))?(?:,bonus_id=([^,]+))?(?:,crafted_stats=([^,]+))?`)
	// Direct class assignment like rogue="Shadowstep"
	assignRe = regexp.MustCompile(`^([a-z_]+)="?([^"]+)"?$`)
)

// Parse decodes a pasted addon export into a Profile. It is a pure
// function: the same input always yields the same structure.
//
// The Adler-32 checksum on the trailing "# Checksum:" line is verified
// against all preceding bytes before anything else is trusted.
func Parse(input string, opts ParseOptions) (*Profile, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.ErrEmptyInput
	}

	if err := verifyChecksum(input); err != nil {
		return nil, err
	}

	skipped := opts.SkippedSlots
	if skipped == nil {
		skipped = DefaultSkippedSlots
	}
	skipSet := make(map[string]bool, len(skipped))
	for _, s := range skipped {
		skipSet[s] = true
	}

	lines := strings.Split(input, "\n")

	p := &Profile{
		Character: parseCharacterInfo(lines),
		Slots:     make(map[string]*SlotItems),
		Rings:     &RingSet{},
	}

	inBags := false
	currentItemName := ""

	for i, line := range lines {
		if strings.HasPrefix(line, bagsMarker) {
			inBags = true
			continue
		}
		if strings.HasPrefix(line, addInfoMarker) {
			inBags = false
			continue
		}

		// Item comment line like "# Mask of the Greatfather (639)" sets the
		// name context for the data line that follows it.
		if strings.HasPrefix(line, "# ") {
			ilvlMatch := ilvlRe.FindStringSubmatch(line)
			if ilvlMatch == nil || i+1 >= len(lines) {
				continue
			}
			open := strings.LastIndex(line, " (")
			if open < 2 {
				continue
			}
			currentItemName = line[2:open]

			item, slot, ok := parseItemLine(lines[i+1])
			if !ok {
				continue
			}
			item.Name = currentItemName
			item.ItemLevel, _ = strconv.Atoi(ilvlMatch[1])

			if skipSet[slot] {
				continue
			}

			if slot == SlotFinger1 || slot == SlotFinger2 {
				p.addRing(item, inBags)
			} else {
				p.addSlotItem(slot, item, inBags)
			}
		}
	}

	p.Preserved = preservedLines(lines)

	return p, nil
}

// verifyChecksum checks the Adler-32 on the trailing checksum line against
// every byte that precedes the line. This guards against corrupted or
// partial pastes; it is not cryptographic.
func verifyChecksum(input string) error {
	idx := strings.LastIndex(input, checksumMarker)
	if idx == -1 {
		return domain.ErrChecksumMissing
	}

	m := checksumRe.FindStringSubmatch(input[idx:])
	if m == nil {
		return fmt.Errorf("%w: malformed checksum line", domain.ErrChecksumMissing)
	}

	want, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrChecksumMissing, err)
	}

	got := adler32.Checksum([]byte(input[:idx]))
	if got != uint32(want) {
		return fmt.Errorf("%w: computed %08x, expected %08x", domain.ErrChecksumMismatch, got, want)
	}
	return nil
}

// Checksum computes the Adler-32 value the addon would write for the
// given content.
func Checksum(content string) uint32 {
	return adler32.Checksum([]byte(content))
}

func parseCharacterInfo(lines []string) CharacterInfo {
	info := CharacterInfo{Name: "Unknown"}

	if len(lines) > 0 {
		if m := headerRe.FindStringSubmatch(lines[0]); m != nil {
			info.Name = strings.TrimSpace(m[1])
			info.Spec = normalizeSpec(m[2])
			info.Realm = strings.TrimSpace(m[3])
		} else if m := realmRe.FindStringSubmatch(lines[0]); m != nil {
			info.Realm = strings.TrimSpace(m[1])
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "spec="):
			if info.Spec == "" {
				info.Spec = normalizeSpec(line[len("spec="):])
			}
		case strings.HasPrefix(line, "level="):
			info.Level, _ = strconv.Atoi(strings.TrimSpace(line[len("level="):]))
		case strings.HasPrefix(line, "race="):
			info.Race = strings.TrimSpace(line[len("race="):])
		case strings.HasPrefix(line, "region="):
			info.Region = strings.TrimSpace(line[len("region="):])
		case strings.HasPrefix(line, "server="):
			info.Server = strings.TrimSpace(line[len("server="):])
		}

		// An explicit class assignment like rogue="Name" is the only
		// reliable resolution for ambiguous spec names.
		if m := assignRe.FindStringSubmatch(line); m != nil {
			if GetClassConstraints(m[1]) != nil {
				info.Class = normalizeKey(m[1])
				info.Name = m[2]
			}
		}
	}

	// Fall back to the lossy spec->class table when no assignment line
	// named the class.
	if info.Class == "" && info.Spec != "" {
		if class, ok := ClassForSpec(info.Spec); ok {
			info.Class = class
		}
	}

	return info
}

// normalizeSpec lowercases a spec name and converts display spacing to the
// snake_case form used in simc profiles ("Beast Mastery" -> "beast_mastery").
func normalizeSpec(s string) string {
	return strings.ReplaceAll(normalizeKey(s), " ", "_")
}

func parseItemLine(line string) (*Item, string, bool) {
	m := itemLineRe.FindStringSubmatch(line)
	if m == nil {
		return nil, "", false
	}

	item := &Item{}
	item.ID, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		item.EnchantID, _ = strconv.Atoi(m[3])
	}
	item.GemIDs = parseIntList(m[4])
	item.BonusIDs = parseIntList(m[5])
	item.CraftedStats = parseIntList(m[6])

	return item, m[1], true
}

func parseIntList(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// addRing routes finger1/finger2 items into the merged ring pool,
// de-duplicating by item ID across equipped and alternatives.
func (p *Profile) addRing(item *Item, inBags bool) {
	if !inBags {
		if containsItemID(p.Rings.Equipped, item.ID) {
			return
		}
		// Promote rather than duplicate when the ring was already seen in a
		// bag section.
		p.Rings.Alternatives = removeItemID(p.Rings.Alternatives, item.ID)
		p.Rings.Equipped = append(p.Rings.Equipped, item)
		return
	}
	if containsItemID(p.Rings.Equipped, item.ID) || containsItemID(p.Rings.Alternatives, item.ID) {
		return
	}
	p.Rings.Alternatives = append(p.Rings.Alternatives, item)
}

// addSlotItem records an item for a regular slot. The first non-bag
// occurrence becomes the equipped item; every later occurrence appends to
// the alternatives unless its ID already appears for the slot.
func (p *Profile) addSlotItem(slot string, item *Item, inBags bool) {
	set, ok := p.Slots[slot]
	if !ok {
		set = &SlotItems{}
		p.Slots[slot] = set
		p.SlotOrder = append(p.SlotOrder, slot)
	}

	if !inBags && set.Equipped == nil {
		set.Alternatives = removeItemID(set.Alternatives, item.ID)
		set.Equipped = item
		return
	}

	if containsItemID(set.Alternatives, item.ID) {
		return
	}
	if set.Equipped != nil && set.Equipped.ID == item.ID {
		return
	}
	set.Alternatives = append(set.Alternatives, item)
}

func removeItemID(items []*Item, id int) []*Item {
	for i, it := range items {
		if it.ID == id {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

func containsItemID(items []*Item, id int) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// preservedLines keeps the comment, talents= and professions= lines needed
// to rebuild a submittable profile. The checksum line is dropped because the
// emitter writes a fresh one over the emitted content.
func preservedLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(line, checksumMarker) {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "talents=") || strings.HasPrefix(line, "professions=") {
			out = append(out, line)
		}
	}
	return out
}
