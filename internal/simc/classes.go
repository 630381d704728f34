package simc

// Armor types, ordered lightest to heaviest in armorHierarchy
const (
	ArmorCloth   = "cloth"
	ArmorLeather = "leather"
	ArmorMail    = "mail"
	ArmorPlate   = "plate"
)

// armorHierarchy fixes the cloth < leather < mail < plate ordering used
// by ArmorValidity.
var armorHierarchy = []string{ArmorCloth, ArmorLeather, ArmorMail, ArmorPlate}

// Weapon types
const (
	WeaponDagger    = "dagger"
	WeaponSword1H   = "sword_1h"
	WeaponAxe1H     = "axe_1h"
	WeaponMace1H    = "mace_1h"
	WeaponFist      = "fist"
	WeaponWand      = "wand"
	WeaponSword2H   = "sword_2h"
	WeaponAxe2H     = "axe_2h"
	WeaponMace2H    = "mace_2h"
	WeaponPolearm   = "polearm"
	WeaponStaff     = "staff"
	WeaponBow       = "bow"
	WeaponCrossbow  = "crossbow"
	WeaponGun       = "gun"
	WeaponThrown    = "thrown"
	WeaponWarglaive = "warglaive"
	WeaponShield    = "shield"
	WeaponOffhand   = "offhand"
)

// Primary stats
const (
	StatStr = "str"
	StatAgi = "agi"
	StatInt = "int"
)

// Weapon configurations
const (
	ConfigDualWield     = "dual_wield"
	ConfigWeaponShield  = "weapon_shield"
	ConfigWeaponOffhand = "weapon_offhand"
	ConfigTwoHanded     = "two_handed"
	ConfigSingleHanded  = "single_handed"
)

// SpecConstraints captures the per-spec equipment rules.
type SpecConstraints struct {
	Name                 string
	PrimaryStat          string // empty inherits the class stat
	WeaponConfigurations []string
	PreferredWeapons     []string
	RequiredMainHand     []string
	RequiredOffHand      []string
	RequiredRanged       bool
	TitanGrip            bool
}

// ClassConstraints captures the per-class equipment rules.
type ClassConstraints struct {
	Name        string
	PrimaryStat string
	ArmorType   string
	WeaponTypes []string
	Specs       map[string]*SpecConstraints
}

var classConstraints = map[string]*ClassConstraints{
	"warrior": {
		Name:        "Warrior",
		PrimaryStat: StatStr,
		ArmorType:   ArmorPlate,
		WeaponTypes: []string{
			WeaponSword1H, WeaponSword2H, WeaponAxe1H, WeaponAxe2H,
			WeaponMace1H, WeaponMace2H, WeaponPolearm, WeaponFist,
			WeaponDagger, WeaponShield, WeaponBow, WeaponCrossbow,
			WeaponGun, WeaponThrown,
		},
		Specs: map[string]*SpecConstraints{
			"arms": {
				Name:                 "Arms",
				WeaponConfigurations: []string{ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponSword2H, WeaponAxe2H, WeaponMace2H, WeaponPolearm},
			},
			"fury": {
				Name:                 "Fury",
				WeaponConfigurations: []string{ConfigDualWield},
				PreferredWeapons: []string{
					WeaponSword1H, WeaponSword2H, WeaponAxe1H, WeaponAxe2H,
					WeaponMace1H, WeaponMace2H, WeaponFist, WeaponDagger,
				},
				TitanGrip: true,
			},
			"protection": {
				Name:                 "Protection",
				WeaponConfigurations: []string{ConfigWeaponShield},
				PreferredWeapons:     []string{WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponFist, WeaponDagger},
				RequiredOffHand:      []string{WeaponShield},
			},
		},
	},

	"paladin": {
		Name:        "Paladin",
		PrimaryStat: StatStr,
		ArmorType:   ArmorPlate,
		WeaponTypes: []string{
			WeaponSword1H, WeaponSword2H, WeaponAxe1H, WeaponAxe2H,
			WeaponMace1H, WeaponMace2H, WeaponPolearm, WeaponShield,
		},
		Specs: map[string]*SpecConstraints{
			"holy": {
				Name:                 "Holy",
				PrimaryStat:          StatInt,
				WeaponConfigurations: []string{ConfigWeaponShield, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponSword1H, WeaponMace1H, WeaponSword2H, WeaponMace2H, WeaponPolearm},
			},
			"protection": {
				Name:                 "Protection",
				WeaponConfigurations: []string{ConfigWeaponShield},
				PreferredWeapons:     []string{WeaponSword1H, WeaponAxe1H, WeaponMace1H},
				RequiredOffHand:      []string{WeaponShield},
			},
			"retribution": {
				Name:                 "Retribution",
				WeaponConfigurations: []string{ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponSword2H, WeaponAxe2H, WeaponMace2H, WeaponPolearm},
			},
		},
	},

	"hunter": {
		Name:        "Hunter",
		PrimaryStat: StatAgi,
		ArmorType:   ArmorMail,
		WeaponTypes: []string{
			WeaponAxe1H, WeaponAxe2H, WeaponSword1H, WeaponSword2H,
			WeaponFist, WeaponDagger, WeaponPolearm, WeaponStaff,
			WeaponBow, WeaponCrossbow, WeaponGun,
		},
		Specs: map[string]*SpecConstraints{
			"beast_mastery": {
				Name:                 "Beast Mastery",
				WeaponConfigurations: []string{ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponBow, WeaponCrossbow, WeaponGun},
				RequiredRanged:       true,
			},
			"marksmanship": {
				Name:                 "Marksmanship",
				WeaponConfigurations: []string{ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponBow, WeaponCrossbow, WeaponGun},
				RequiredRanged:       true,
			},
			"survival": {
				Name:                 "Survival",
				WeaponConfigurations: []string{ConfigTwoHanded, ConfigDualWield},
				PreferredWeapons: []string{
					WeaponPolearm, WeaponStaff, WeaponAxe2H, WeaponSword2H,
					WeaponAxe1H, WeaponSword1H, WeaponFist, WeaponDagger,
				},
			},
		},
	},

	"rogue": {
		Name:        "Rogue",
		PrimaryStat: StatAgi,
		ArmorType:   ArmorLeather,
		WeaponTypes: []string{
			WeaponDagger, WeaponSword1H, WeaponAxe1H, WeaponMace1H,
			WeaponFist, WeaponBow, WeaponCrossbow, WeaponGun, WeaponThrown,
		},
		Specs: map[string]*SpecConstraints{
			"assassination": {
				Name:                 "Assassination",
				WeaponConfigurations: []string{ConfigDualWield},
				PreferredWeapons:     []string{WeaponDagger},
				RequiredMainHand:     []string{WeaponDagger},
			},
			"outlaw": {
				Name:                 "Outlaw",
				WeaponConfigurations: []string{ConfigDualWield},
				PreferredWeapons:     []string{WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponFist, WeaponDagger},
			},
			"subtlety": {
				Name:                 "Subtlety",
				WeaponConfigurations: []string{ConfigDualWield},
				PreferredWeapons:     []string{WeaponDagger},
				RequiredMainHand:     []string{WeaponDagger},
			},
		},
	},

	"priest": {
		Name:        "Priest",
		PrimaryStat: StatInt,
		ArmorType:   ArmorCloth,
		WeaponTypes: []string{WeaponDagger, WeaponMace1H, WeaponStaff, WeaponWand, WeaponOffhand},
		Specs: map[string]*SpecConstraints{
			"discipline": {
				Name:                 "Discipline",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponMace1H, WeaponDagger, WeaponWand},
			},
			"holy": {
				Name:                 "Holy",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponMace1H, WeaponDagger, WeaponWand},
			},
			"shadow": {
				Name:                 "Shadow",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponMace1H, WeaponDagger, WeaponWand},
			},
		},
	},

	"shaman": {
		Name:        "Shaman",
		PrimaryStat: StatAgi, // default, overridden by specs
		ArmorType:   ArmorMail,
		WeaponTypes: []string{
			WeaponAxe1H, WeaponAxe2H, WeaponMace1H, WeaponMace2H,
			WeaponFist, WeaponDagger, WeaponStaff, WeaponShield, WeaponOffhand,
		},
		Specs: map[string]*SpecConstraints{
			"elemental": {
				Name:                 "Elemental",
				PrimaryStat:          StatInt,
				WeaponConfigurations: []string{ConfigWeaponShield, ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponMace1H, WeaponAxe1H, WeaponDagger, WeaponFist},
			},
			"enhancement": {
				Name:                 "Enhancement",
				WeaponConfigurations: []string{ConfigDualWield},
				PreferredWeapons:     []string{WeaponAxe1H, WeaponMace1H, WeaponFist, WeaponDagger},
			},
			"restoration": {
				Name:                 "Restoration",
				PrimaryStat:          StatInt,
				WeaponConfigurations: []string{ConfigWeaponShield, ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponMace1H, WeaponAxe1H, WeaponDagger, WeaponFist},
			},
		},
	},

	"mage": {
		Name:        "Mage",
		PrimaryStat: StatInt,
		ArmorType:   ArmorCloth,
		WeaponTypes: []string{WeaponDagger, WeaponSword1H, WeaponStaff, WeaponWand, WeaponOffhand},
		Specs: map[string]*SpecConstraints{
			"arcane": {
				Name:                 "Arcane",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponSword1H, WeaponDagger, WeaponWand},
			},
			"fire": {
				Name:                 "Fire",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponSword1H, WeaponDagger, WeaponWand},
			},
			"frost": {
				Name:                 "Frost",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponSword1H, WeaponDagger, WeaponWand},
			},
		},
	},

	"warlock": {
		Name:        "Warlock",
		PrimaryStat: StatInt,
		ArmorType:   ArmorCloth,
		WeaponTypes: []string{WeaponDagger, WeaponSword1H, WeaponStaff, WeaponWand, WeaponOffhand},
		Specs: map[string]*SpecConstraints{
			"affliction": {
				Name:                 "Affliction",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponSword1H, WeaponDagger, WeaponWand},
			},
			"demonology": {
				Name:                 "Demonology",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponSword1H, WeaponDagger, WeaponWand},
			},
			"destruction": {
				Name:                 "Destruction",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponSword1H, WeaponDagger, WeaponWand},
			},
		},
	},

	"monk": {
		Name:        "Monk",
		PrimaryStat: StatAgi, // default, overridden by specs
		ArmorType:   ArmorLeather,
		WeaponTypes: []string{WeaponFist, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponPolearm, WeaponStaff},
		Specs: map[string]*SpecConstraints{
			"brewmaster": {
				Name:                 "Brewmaster",
				WeaponConfigurations: []string{ConfigDualWield, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponFist, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponPolearm, WeaponStaff},
			},
			"mistweaver": {
				Name:                 "Mistweaver",
				PrimaryStat:          StatInt,
				WeaponConfigurations: []string{ConfigDualWield, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponFist, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponPolearm},
			},
			"windwalker": {
				Name:                 "Windwalker",
				WeaponConfigurations: []string{ConfigDualWield, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponFist, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponPolearm, WeaponStaff},
			},
		},
	},

	"druid": {
		Name:        "Druid",
		PrimaryStat: StatAgi, // default, overridden by specs
		ArmorType:   ArmorLeather,
		WeaponTypes: []string{WeaponDagger, WeaponFist, WeaponMace1H, WeaponMace2H, WeaponPolearm, WeaponStaff, WeaponOffhand},
		Specs: map[string]*SpecConstraints{
			"balance": {
				Name:                 "Balance",
				PrimaryStat:          StatInt,
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponMace1H, WeaponDagger, WeaponFist, WeaponPolearm, WeaponMace2H},
			},
			"feral": {
				Name:                 "Feral",
				WeaponConfigurations: []string{ConfigTwoHanded, ConfigWeaponOffhand},
				PreferredWeapons:     []string{WeaponStaff, WeaponPolearm, WeaponMace2H, WeaponFist, WeaponDagger, WeaponMace1H},
			},
			"guardian": {
				Name:                 "Guardian",
				PrimaryStat:          StatAgi,
				WeaponConfigurations: []string{ConfigTwoHanded, ConfigWeaponOffhand},
				PreferredWeapons:     []string{WeaponStaff, WeaponPolearm, WeaponMace2H, WeaponFist, WeaponDagger, WeaponMace1H},
			},
			"restoration": {
				Name:                 "Restoration",
				PrimaryStat:          StatInt,
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponMace1H, WeaponDagger, WeaponFist, WeaponPolearm, WeaponMace2H},
			},
		},
	},

	"demon_hunter": {
		Name:        "Demon Hunter",
		PrimaryStat: StatAgi,
		ArmorType:   ArmorLeather,
		WeaponTypes: []string{WeaponWarglaive, WeaponSword1H, WeaponAxe1H, WeaponFist},
		Specs: map[string]*SpecConstraints{
			"havoc": {
				Name:                 "Havoc",
				WeaponConfigurations: []string{ConfigDualWield},
				PreferredWeapons:     []string{WeaponWarglaive, WeaponSword1H, WeaponAxe1H, WeaponFist},
			},
			"vengeance": {
				Name:                 "Vengeance",
				WeaponConfigurations: []string{ConfigDualWield},
				PreferredWeapons:     []string{WeaponWarglaive, WeaponSword1H, WeaponAxe1H, WeaponFist},
			},
		},
	},

	"death_knight": {
		Name:        "Death Knight",
		PrimaryStat: StatStr,
		ArmorType:   ArmorPlate,
		WeaponTypes: []string{
			WeaponAxe1H, WeaponAxe2H, WeaponMace1H, WeaponMace2H,
			WeaponSword1H, WeaponSword2H, WeaponPolearm,
		},
		Specs: map[string]*SpecConstraints{
			"blood": {
				Name:                 "Blood",
				WeaponConfigurations: []string{ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponAxe2H, WeaponMace2H, WeaponSword2H, WeaponPolearm},
			},
			"frost": {
				Name:                 "Frost",
				WeaponConfigurations: []string{ConfigDualWield, ConfigTwoHanded},
				PreferredWeapons: []string{
					WeaponAxe1H, WeaponMace1H, WeaponSword1H, WeaponAxe2H,
					WeaponMace2H, WeaponSword2H, WeaponPolearm,
				},
			},
			"unholy": {
				Name:                 "Unholy",
				WeaponConfigurations: []string{ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponAxe2H, WeaponMace2H, WeaponSword2H, WeaponPolearm},
			},
		},
	},

	"evoker": {
		Name:        "Evoker",
		PrimaryStat: StatInt,
		ArmorType:   ArmorMail,
		WeaponTypes: []string{WeaponDagger, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponFist, WeaponStaff, WeaponOffhand},
		Specs: map[string]*SpecConstraints{
			"devastation": {
				Name:                 "Devastation",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponDagger, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponFist},
			},
			"preservation": {
				Name:                 "Preservation",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponDagger, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponFist},
			},
			"augmentation": {
				Name:                 "Augmentation",
				WeaponConfigurations: []string{ConfigWeaponOffhand, ConfigTwoHanded},
				PreferredWeapons:     []string{WeaponStaff, WeaponDagger, WeaponSword1H, WeaponAxe1H, WeaponMace1H, WeaponFist},
			},
		},
	},
}

// specClassMap resolves a spec name to its class. Spec names collide across
// classes (holy, protection, frost, restoration); the winner here matches
// the addon's table and an explicit class="Name" line overrides it during
// parsing.
var specClassMap = map[string]string{
	// Warrior
	"arms":       "warrior",
	"fury":       "warrior",
	"protection": "warrior", // also paladin

	// Paladin
	"holy":        "paladin", // also priest
	"retribution": "paladin",

	// Hunter
	"beast_mastery": "hunter",
	"marksmanship":  "hunter",
	"survival":      "hunter",

	// Rogue
	"assassination": "rogue",
	"outlaw":        "rogue",
	"subtlety":      "rogue",

	// Priest
	"discipline": "priest",
	"shadow":     "priest",

	// Death Knight
	"blood":  "death_knight",
	"frost":  "death_knight", // also shaman and mage
	"unholy": "death_knight",

	// Shaman
	"elemental":   "shaman",
	"enhancement": "shaman",
	"restoration": "shaman", // also druid

	// Mage
	"arcane": "mage",
	"fire":   "mage",

	// Warlock
	"affliction":  "warlock",
	"demonology":  "warlock",
	"destruction": "warlock",

	// Monk
	"brewmaster": "monk",
	"mistweaver": "monk",
	"windwalker": "monk",

	// Druid
	"balance":  "druid",
	"feral":    "druid",
	"guardian": "druid",

	// Demon Hunter
	"havoc":     "demon_hunter",
	"vengeance": "demon_hunter",

	// Evoker
	"devastation":  "evoker",
	"preservation": "evoker",
	"augmentation": "evoker",
}

// ClassForSpec maps a spec name to its class. The mapping is lossy for
// ambiguous specs; callers should prefer an explicit class assignment line
// when one is present.
func ClassForSpec(spec string) (string, bool) {
	class, ok := specClassMap[normalizeKey(spec)]
	return class, ok
}
