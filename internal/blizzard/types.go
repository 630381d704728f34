package blizzard

import (
	"encoding/json"
	"fmt"
)

// CharacterSummary is a character's profile summary.
type CharacterSummary struct {
	Name              string `json:"name"`
	Realm             string `json:"realm"`
	RealmSlug         string `json:"realm_slug"`
	Class             string `json:"class"`
	ActiveSpec        string `json:"active_spec"`
	Level             int    `json:"level"`
	Faction           string `json:"faction"`
	GuildName         string `json:"guild_name,omitempty"`
	AverageItemLevel  int    `json:"average_item_level"`
	EquippedItemLevel int    `json:"equipped_item_level"`
}

// EquippedItem is one piece of a character's equipped gear.
type EquippedItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Slot       string `json:"slot"`
	ItemLevel  int    `json:"item_level"`
	EnchantIDs []int  `json:"enchant_ids,omitempty"`
	GemIDs     []int  `json:"gem_ids,omitempty"`
	BonusIDs   []int  `json:"bonus_ids,omitempty"`
}

// CharacterEquipment is a character's full equipped gear set.
type CharacterEquipment struct {
	Items []EquippedItem `json:"items"`
}

// GuildMember is one entry in a guild roster.
type GuildMember struct {
	Name      string `json:"name"`
	RealmSlug string `json:"realm_slug"`
	Level     int    `json:"level"`
	ClassID   int    `json:"class_id"`
	Rank      int    `json:"rank"`
}

// GuildRoster is a guild's member list.
type GuildRoster struct {
	GuildName string        `json:"guild_name"`
	Faction   string        `json:"faction"`
	Members   []GuildMember `json:"members"`
}

// UserInfo is the Battle.net account behind an OAuth user token.
type UserInfo struct {
	Sub       string `json:"sub"`
	ID        int64  `json:"id"`
	BattleTag string `json:"battletag"`
}

// AccountCharacter is a WoW character on the user's Battle.net account.
type AccountCharacter struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Realm     string `json:"realm"`
	RealmSlug string `json:"realm_slug"`
	Class     string `json:"class"`
	Level     int    `json:"level"`
}

// Realm is one entry in the region's realm list, used for realm
// autocomplete on the frontend.
type Realm struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Raw upstream response shapes. These mirror the Battle.net JSON and stay
// private; exported types above are what callers see.

type namedRef struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type characterSummaryResponse struct {
	Name           string   `json:"name"`
	Realm          namedRef `json:"realm"`
	CharacterClass namedRef `json:"character_class"`
	ActiveSpec     namedRef `json:"active_spec"`
	Level          int      `json:"level"`
	Faction        struct {
		Name string `json:"name"`
	} `json:"faction"`
	Guild             *namedRef `json:"guild,omitempty"`
	AverageItemLevel  int       `json:"average_item_level"`
	EquippedItemLevel int       `json:"equipped_item_level"`
}

type characterEquipmentResponse struct {
	EquippedItems []struct {
		Item struct {
			ID int `json:"id"`
		} `json:"item"`
		Slot struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"slot"`
		Name  string `json:"name"`
		Level struct {
			Value int `json:"value"`
		} `json:"level"`
		BonusList    []int `json:"bonus_list,omitempty"`
		Enchantments []struct {
			EnchantmentID int `json:"enchantment_id"`
		} `json:"enchantments,omitempty"`
		Sockets []struct {
			Item *struct {
				ID int `json:"id"`
			} `json:"item,omitempty"`
		} `json:"sockets,omitempty"`
	} `json:"equipped_items"`
}

type realmIndexResponse struct {
	Realms []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"realms"`
}

type mediaResponse struct {
	Assets []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"assets"`
}

type guildRosterResponse struct {
	Guild struct {
		Name    string `json:"name"`
		Faction struct {
			Type string `json:"type"`
		} `json:"faction"`
	} `json:"guild"`
	Members []struct {
		Character struct {
			Name  string `json:"name"`
			Realm struct {
				Slug string `json:"slug"`
			} `json:"realm"`
			Level         int `json:"level"`
			PlayableClass struct {
				ID int `json:"id"`
			} `json:"playable_class"`
		} `json:"character"`
		Rank int `json:"rank"`
	} `json:"members"`
}

type accountProfileResponse struct {
	WowAccounts []struct {
		Characters []struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Realm struct {
				Name string `json:"name"`
				Slug string `json:"slug"`
			} `json:"realm"`
			PlayableClass struct {
				Name string `json:"name"`
			} `json:"playable_class"`
			Level int `json:"level"`
		} `json:"characters"`
	} `json:"wow_accounts"`
}

func decodeJSON(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}
