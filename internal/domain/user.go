package domain

import "time"

// User represents a logged-in Battle.net account
type User struct {
	ID        string    `json:"id"`
	BattleTag string    `json:"battletag"`
	BnetID    int64     `json:"bnet_id"`
	Region    string    `json:"region"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// CharacterRole is the raid role a character fills
type CharacterRole string

const (
	RoleTank   CharacterRole = "TANK"
	RoleHealer CharacterRole = "HEALER"
	RoleDamage CharacterRole = "DAMAGE"
)

// Character represents a WoW character attached to a user or roster
type Character struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id,omitempty"`
	Name      string        `json:"name"`
	Realm     string        `json:"realm"`
	Region    string        `json:"region"`
	Class     string        `json:"class"`
	Spec      string        `json:"spec"`
	Level     int           `json:"level"`
	Role      CharacterRole `json:"role"`
	GuildRank int           `json:"guild_rank"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ValidRoles lists the accepted character roles
var ValidRoles = map[CharacterRole]bool{
	RoleTank:   true,
	RoleHealer: true,
	RoleDamage: true,
}
