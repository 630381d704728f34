package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/repository"
)

// RosterRepository implements the roster repository for PostgreSQL
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a new RosterRepository
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// Create inserts a new roster. The roster's ID and timestamps are filled in.
func (r *RosterRepository) Create(ctx context.Context, roster *domain.Roster) error {
	query := `
		INSERT INTO rosters (guild_id, name, size, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING roster_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, roster.GuildID, roster.Name, roster.Size, roster.CreatedBy).
		Scan(&roster.ID, &roster.CreatedAt, &roster.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create roster: %w", err)
	}
	return nil
}

const rosterSelect = `
	SELECT roster_id, guild_id, name, size, created_by, created_at, updated_at
	FROM rosters
`

// GetByID fetches a roster by ID
func (r *RosterRepository) GetByID(ctx context.Context, rosterID string) (*domain.Roster, error) {
	return scanRoster(r.db.QueryRow(ctx, rosterSelect+` WHERE roster_id = $1`, rosterID))
}

// ListByGuild fetches all rosters owned by a guild
func (r *RosterRepository) ListByGuild(ctx context.Context, guildID string) ([]domain.Roster, error) {
	rows, err := r.db.Query(ctx, rosterSelect+` WHERE guild_id = $1 ORDER BY created_at`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}
	defer rows.Close()

	var rosters []domain.Roster
	for rows.Next() {
		var roster domain.Roster
		err := rows.Scan(&roster.ID, &roster.GuildID, &roster.Name, &roster.Size,
			&roster.CreatedBy, &roster.CreatedAt, &roster.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}
		rosters = append(rosters, roster)
	}
	return rosters, rows.Err()
}

// Rename updates a roster's name
func (r *RosterRepository) Rename(ctx context.Context, rosterID, name string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE rosters SET name = $2, updated_at = NOW() WHERE roster_id = $1`, rosterID, name)
	if err != nil {
		return fmt.Errorf("failed to rename roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRosterNotFound
	}
	return nil
}

// Delete removes a roster and its entries
func (r *RosterRepository) Delete(ctx context.Context, rosterID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rosters WHERE roster_id = $1`, rosterID)
	if err != nil {
		return fmt.Errorf("failed to delete roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRosterNotFound
	}
	return nil
}

// RemoveCharacter drops a character from a roster
func (r *RosterRepository) RemoveCharacter(ctx context.Context, rosterID, characterID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM roster_characters WHERE roster_id = $1 AND character_id = $2`,
		rosterID, characterID)
	if err != nil {
		return fmt.Errorf("failed to remove roster character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

// UpdateCharacter changes a roster entry's role or status
func (r *RosterRepository) UpdateCharacter(ctx context.Context, entry *domain.RosterCharacter) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE roster_characters SET role = $3, status = $4 WHERE roster_id = $1 AND character_id = $2`,
		entry.RosterID, entry.CharacterID, entry.Role, entry.Status)
	if err != nil {
		return fmt.Errorf("failed to update roster character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

// ListCharacters fetches a roster's entries
func (r *RosterRepository) ListCharacters(ctx context.Context, rosterID string) ([]domain.RosterCharacter, error) {
	query := `
		SELECT roster_id, character_id, role, status, added_at
		FROM roster_characters
		WHERE roster_id = $1
		ORDER BY added_at
	`
	rows, err := r.db.Query(ctx, query, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster characters: %w", err)
	}
	defer rows.Close()

	var entries []domain.RosterCharacter
	for rows.Next() {
		var entry domain.RosterCharacter
		if err := rows.Scan(&entry.RosterID, &entry.CharacterID, &entry.Role, &entry.Status, &entry.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster character: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// BeginTx starts a roster transaction
func (r *RosterRepository) BeginTx(ctx context.Context) (repository.RosterTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	return &rosterTx{tx: tx}, nil
}

type rosterTx struct {
	tx pgx.Tx
}

func (t *rosterTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *rosterTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// LockRoster loads the roster row with a row lock, serializing concurrent
// capacity checks.
func (t *rosterTx) LockRoster(ctx context.Context, rosterID string) (*domain.Roster, error) {
	return scanRoster(t.tx.QueryRow(ctx, rosterSelect+` WHERE roster_id = $1 FOR UPDATE`, rosterID))
}

func (t *rosterTx) CountCharacters(ctx context.Context, rosterID string) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM roster_characters WHERE roster_id = $1`, rosterID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count roster characters: %w", err)
	}
	return count, nil
}

func (t *rosterTx) AddCharacter(ctx context.Context, entry *domain.RosterCharacter) error {
	query := `
		INSERT INTO roster_characters (roster_id, character_id, role, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (roster_id, character_id) DO UPDATE
		SET role = EXCLUDED.role, status = EXCLUDED.status
		RETURNING added_at
	`
	err := t.tx.QueryRow(ctx, query, entry.RosterID, entry.CharacterID, entry.Role, entry.Status).
		Scan(&entry.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add roster character: %w", err)
	}
	return nil
}

func scanRoster(row pgx.Row) (*domain.Roster, error) {
	var roster domain.Roster
	err := row.Scan(&roster.ID, &roster.GuildID, &roster.Name, &roster.Size,
		&roster.CreatedBy, &roster.CreatedAt, &roster.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRosterNotFound
		}
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return &roster, nil
}
