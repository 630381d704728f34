package domain

import "time"

// Guild represents a WoW guild known to the system
type Guild struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Realm string `json:"realm"`
	// Slug is the lowercase hyphenated form used in API paths
	Slug    string `json:"slug"`
	Region  string `json:"region"`
	Faction string `json:"faction"`
	// RosterCreationRank is the highest (numerically largest) guild rank
	// still allowed to manage rosters. Rank 0 is the guild master.
	RosterCreationRank int       `json:"roster_creation_rank"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RosterStatus tracks where a roster entry sits in the raid lineup
type RosterStatus string

const (
	RosterStatusActive RosterStatus = "ACTIVE"
	RosterStatusBench  RosterStatus = "BENCH"
)

// Roster size bounds
const (
	RosterMinSize = 10
	RosterMaxSize = 60
)

// Roster is a named raid lineup owned by a guild
type Roster struct {
	ID        string    `json:"id"`
	GuildID   string    `json:"guild_id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RosterCharacter is a character's membership in a roster
type RosterCharacter struct {
	RosterID    string        `json:"roster_id"`
	CharacterID string        `json:"character_id"`
	Role        CharacterRole `json:"role"`
	Status      RosterStatus  `json:"status"`
	AddedAt     time.Time     `json:"added_at"`
}
