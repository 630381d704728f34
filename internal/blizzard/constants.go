package blizzard

// Battle.net API regions
const (
	RegionUS = "us"
	RegionEU = "eu"
	RegionKR = "kr"
	RegionTW = "tw"
)

// Namespace prefixes; the full namespace is "<prefix>-<region>"
const (
	NamespaceProfile = "profile"
	NamespaceStatic  = "static"
	NamespaceDynamic = "dynamic"
)

// Rate limiting defaults. Battle.net allows 100 requests per second per
// client; the burst keeps short spikes from queueing.
const (
	DefaultRequestsPerSecond = 100
	DefaultBurst             = 10
)

// Endpoint names used as the endpoint label on upstream request metrics
const (
	EndpointToken             = "token"
	EndpointUserInfo          = "user_info"
	EndpointAccountCharacters = "account_characters"
	EndpointCharacterProfile  = "character_profile"
	EndpointCharacterEquip    = "character_equipment"
	EndpointItemMedia         = "item_media"
	EndpointGuildRoster       = "guild_roster"
	EndpointRealmIndex        = "realm_index"
)

// Cache tier labels for hit/miss metrics
const (
	TierProfile = "profile"
	TierDynamic = "dynamic"
	TierStatic  = "static"
)

// classNames maps playable class IDs to display names.
var classNames = map[int]string{
	1:  "Warrior",
	2:  "Paladin",
	3:  "Hunter",
	4:  "Rogue",
	5:  "Priest",
	6:  "Death Knight",
	7:  "Shaman",
	8:  "Mage",
	9:  "Warlock",
	10: "Monk",
	11: "Druid",
	12: "Demon Hunter",
	13: "Evoker",
}

// ClassName resolves a playable class ID to its display name. Unknown IDs
// return an empty string.
func ClassName(id int) string {
	return classNames[id]
}
