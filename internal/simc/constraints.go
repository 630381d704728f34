package simc

import (
	"fmt"
	"strings"

	"github.com/wowlab/guildsim/internal/domain"
)

// Validity classifies how well an item fits a class/spec. The three levels
// are load-bearing: Soft means "usable but suboptimal" and must not be
// collapsed into a boolean.
type Validity int

const (
	// ValidityNone means the item fits with no caveats.
	ValidityNone Validity = iota
	// ValiditySoft means the item is usable but suboptimal.
	ValiditySoft
	// ValidityHard means the item cannot be used at all.
	ValidityHard
)

// String implements fmt.Stringer
func (v Validity) String() string {
	switch v {
	case ValidityNone:
		return "none"
	case ValiditySoft:
		return "soft"
	case ValidityHard:
		return "hard"
	default:
		return fmt.Sprintf("Validity(%d)", int(v))
	}
}

// Usable reports whether the item can be equipped at all.
func (v Validity) Usable() bool {
	return v != ValidityHard
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GetClassConstraints returns the constraints for a class, or nil if the
// class is unknown. Lookup is case-insensitive.
func GetClassConstraints(class string) *ClassConstraints {
	return classConstraints[normalizeKey(class)]
}

// GetSpecConstraints returns the constraints for a class/spec pair, or nil
// if either is unknown. Lookup is case-insensitive.
func GetSpecConstraints(class, spec string) *SpecConstraints {
	classData := GetClassConstraints(class)
	if classData == nil {
		return nil
	}
	return classData.Specs[normalizeKey(spec)]
}

// PrimaryStat returns the effective primary stat for a class/spec pair,
// preferring the spec override.
func PrimaryStat(class, spec string) string {
	if specData := GetSpecConstraints(class, spec); specData != nil && specData.PrimaryStat != "" {
		return specData.PrimaryStat
	}
	if classData := GetClassConstraints(class); classData != nil {
		return classData.PrimaryStat
	}
	return ""
}

// ArmorType returns the expected armor type for a class/spec pair.
func ArmorType(class, spec string) string {
	if classData := GetClassConstraints(class); classData != nil {
		return classData.ArmorType
	}
	return ""
}

// WeaponTypeValidity classifies a weapon type for a class/spec and slot.
// Unknown class/spec pairs are hard-invalid; types outside the class list
// are hard-invalid; slot-required types (e.g. shields for protection
// off-hands) are hard when violated; types outside the spec's preferred
// list are soft.
func WeaponTypeValidity(class, spec, weaponType, slot string) Validity {
	classData := GetClassConstraints(class)
	specData := GetSpecConstraints(class, spec)
	if classData == nil || specData == nil {
		return ValidityHard
	}

	if !contains(classData.WeaponTypes, weaponType) {
		return ValidityHard
	}

	if slot == SlotMainHand && len(specData.RequiredMainHand) > 0 &&
		!contains(specData.RequiredMainHand, weaponType) {
		return ValidityHard
	}
	if slot == SlotOffHand && len(specData.RequiredOffHand) > 0 &&
		!contains(specData.RequiredOffHand, weaponType) {
		return ValidityHard
	}
	if len(specData.PreferredWeapons) > 0 && !contains(specData.PreferredWeapons, weaponType) {
		return ValiditySoft
	}

	return ValidityNone
}

// ArmorValidity compares an item's armor tier against the class/spec's
// expected tier. Exact match is none, lighter armor is soft, heavier armor
// (or an unknown class/armor type) is hard.
func ArmorValidity(class, spec, armorType string) Validity {
	if GetSpecConstraints(class, spec) == nil {
		return ValidityHard
	}
	preferred := ArmorType(class, spec)
	if preferred == "" {
		return ValidityHard
	}

	preferredIdx := indexOf(armorHierarchy, preferred)
	itemIdx := indexOf(armorHierarchy, normalizeKey(armorType))
	if itemIdx < 0 {
		return ValidityHard
	}

	switch {
	case itemIdx > preferredIdx:
		return ValidityHard
	case itemIdx < preferredIdx:
		return ValiditySoft
	default:
		return ValidityNone
	}
}

// PrimaryStatValidity classifies an item's primary stat. For a known
// class/spec pair a mismatched stat is always soft, never hard.
func PrimaryStatValidity(class, spec, itemStat string) Validity {
	if GetSpecConstraints(class, spec) == nil {
		return ValidityHard
	}
	preferred := PrimaryStat(class, spec)
	if preferred == "" || itemStat == "" {
		return ValidityNone
	}
	if normalizeKey(itemStat) == preferred {
		return ValidityNone
	}
	return ValiditySoft
}

// WeaponConfigValidity checks a weapon setup (dual-wield, weapon+shield,
// two-handed, ...) against the spec's declared configurations.
func WeaponConfigValidity(class, spec, configuration string) Validity {
	specData := GetSpecConstraints(class, spec)
	if specData == nil {
		return ValidityHard
	}
	if len(specData.WeaponConfigurations) == 0 {
		return ValidityNone
	}
	if contains(specData.WeaponConfigurations, configuration) {
		return ValidityNone
	}
	return ValidityHard
}

// ValidWeaponConfigurations lists the configurations a spec may use.
func ValidWeaponConfigurations(class, spec string) []string {
	specData := GetSpecConstraints(class, spec)
	if specData == nil || len(specData.WeaponConfigurations) == 0 {
		return []string{ConfigTwoHanded, ConfigDualWield}
	}
	return specData.WeaponConfigurations
}

// ValidateCharacter verifies that the class and spec are both known and
// belong together. Simulation submission is blocked on failure.
func ValidateCharacter(class, spec string) error {
	if GetClassConstraints(class) == nil {
		return fmt.Errorf("%w: %q", domain.ErrUnknownClass, class)
	}
	if GetSpecConstraints(class, spec) == nil {
		return fmt.Errorf("%w: %q for class %q", domain.ErrUnknownSpec, spec, class)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
