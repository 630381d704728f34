package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wowlab/guildsim/internal/domain"
)

// GuildRepository implements the guild repository for PostgreSQL
type GuildRepository struct {
	db *pgxpool.Pool
}

// NewGuildRepository creates a new GuildRepository
func NewGuildRepository(db *pgxpool.Pool) *GuildRepository {
	return &GuildRepository{db: db}
}

// Upsert inserts or refreshes a guild keyed by region, realm and slug.
// The guild's ID and update timestamp are filled in.
func (r *GuildRepository) Upsert(ctx context.Context, guild *domain.Guild) error {
	query := `
		INSERT INTO guilds (name, realm, slug, region, faction)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (region, realm, slug) DO UPDATE
		SET name = EXCLUDED.name,
		    faction = EXCLUDED.faction,
		    updated_at = NOW()
		RETURNING guild_id, roster_creation_rank, updated_at
	`
	err := r.db.QueryRow(ctx, query, guild.Name, guild.Realm, guild.Slug, guild.Region, guild.Faction).
		Scan(&guild.ID, &guild.RosterCreationRank, &guild.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert guild: %w", err)
	}
	return nil
}

const guildSelect = `
	SELECT guild_id, name, realm, slug, region, faction, roster_creation_rank, updated_at
	FROM guilds
`

// GetByID fetches a guild by internal ID
func (r *GuildRepository) GetByID(ctx context.Context, guildID string) (*domain.Guild, error) {
	return scanGuild(r.db.QueryRow(ctx, guildSelect+` WHERE guild_id = $1`, guildID))
}

// GetBySlug fetches a guild by its in-game identity
func (r *GuildRepository) GetBySlug(ctx context.Context, region, realm, slug string) (*domain.Guild, error) {
	query := guildSelect + ` WHERE region = $1 AND realm = $2 AND slug = $3`
	return scanGuild(r.db.QueryRow(ctx, query, region, realm, slug))
}

// SetRosterCreationRank updates the rank threshold for roster management
func (r *GuildRepository) SetRosterCreationRank(ctx context.Context, guildID string, rank int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE guilds SET roster_creation_rank = $2, updated_at = NOW() WHERE guild_id = $1`,
		guildID, rank)
	if err != nil {
		return fmt.Errorf("failed to set roster creation rank: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGuildNotFound
	}
	return nil
}

// ReplaceMembers reconciles guild membership against a fresh roster sync.
// Characters no longer in the guild are detached, current members are
// upserted with their rank.
func (r *GuildRepository) ReplaceMembers(ctx context.Context, guildID string, members []domain.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE characters SET guild_id = NULL, guild_rank = 99 WHERE guild_id = $1`, guildID)
	if err != nil {
		return fmt.Errorf("failed to detach old members: %w", err)
	}

	memberQuery := `
		INSERT INTO characters (guild_id, name, realm, region, class, level, guild_rank)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (region, realm, name) DO UPDATE
		SET guild_id = EXCLUDED.guild_id,
		    class = EXCLUDED.class,
		    level = EXCLUDED.level,
		    guild_rank = EXCLUDED.guild_rank,
		    updated_at = NOW()
	`
	for _, m := range members {
		_, err := tx.Exec(ctx, memberQuery,
			guildID, m.Name, m.Realm, m.Region, m.Class, m.Level, m.GuildRank)
		if err != nil {
			return fmt.Errorf("failed to upsert member %s: %w", m.Name, err)
		}
	}
	return tx.Commit(ctx)
}

// ListMembers fetches guild members ordered by rank
func (r *GuildRepository) ListMembers(ctx context.Context, guildID string) ([]domain.Character, error) {
	query := characterSelect + ` WHERE guild_id = $1 ORDER BY guild_rank, name`
	rows, err := r.db.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()
	return collectCharacters(rows)
}

// BestRankForUser returns the lowest guild rank held by any of the user's
// characters in the guild.
func (r *GuildRepository) BestRankForUser(ctx context.Context, guildID, userID string) (int, error) {
	var rank *int
	err := r.db.QueryRow(ctx,
		`SELECT MIN(guild_rank) FROM characters WHERE guild_id = $1 AND user_id = $2`,
		guildID, userID).Scan(&rank)
	if err != nil {
		return 0, fmt.Errorf("failed to get member rank: %w", err)
	}
	if rank == nil {
		return 0, domain.ErrNotGuildMember
	}
	return *rank, nil
}

func scanGuild(row pgx.Row) (*domain.Guild, error) {
	var g domain.Guild
	err := row.Scan(&g.ID, &g.Name, &g.Realm, &g.Slug, &g.Region, &g.Faction,
		&g.RosterCreationRank, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGuildNotFound
		}
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}
	return &g, nil
}
