package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wowlab/guildsim/internal/cache"
	"github.com/wowlab/guildsim/internal/database/postgres"
	"github.com/wowlab/guildsim/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Users      repository.User
	Characters repository.Character
	Guilds     repository.Guild
	Rosters    repository.Roster
	CacheStore cache.Store
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:      postgres.NewUserRepository(dbPool),
		Characters: postgres.NewCharacterRepository(dbPool),
		Guilds:     postgres.NewGuildRepository(dbPool),
		Rosters:    postgres.NewRosterRepository(dbPool),
		CacheStore: postgres.NewCacheStore(dbPool),
	}
}
