package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wowlab/guildsim/internal/domain"
)

// CharacterRepository implements the character repository for PostgreSQL
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterUpsertQuery = `
	INSERT INTO characters (user_id, name, realm, region, class, spec, level, role)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (region, realm, name) DO UPDATE
	SET user_id = COALESCE(EXCLUDED.user_id, characters.user_id),
	    class = EXCLUDED.class,
	    spec = EXCLUDED.spec,
	    level = EXCLUDED.level,
	    updated_at = NOW()
	RETURNING character_id, updated_at
`

// Upsert inserts or refreshes a character keyed by region, realm and name.
// The character's ID and update timestamp are filled in.
func (r *CharacterRepository) Upsert(ctx context.Context, character *domain.Character) error {
	role := character.Role
	if role == "" {
		role = domain.RoleDamage
	}
	err := r.db.QueryRow(ctx, characterUpsertQuery,
		nullableID(character.UserID), character.Name, character.Realm, character.Region,
		character.Class, character.Spec, character.Level, role).
		Scan(&character.ID, &character.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert character: %w", err)
	}
	return nil
}

// UpsertBatch upserts characters in one transaction
func (r *CharacterRepository) UpsertBatch(ctx context.Context, characters []domain.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	defer tx.Rollback(ctx)

	for i := range characters {
		ch := &characters[i]
		role := ch.Role
		if role == "" {
			role = domain.RoleDamage
		}
		err := tx.QueryRow(ctx, characterUpsertQuery,
			nullableID(ch.UserID), ch.Name, ch.Realm, ch.Region,
			ch.Class, ch.Spec, ch.Level, role).
			Scan(&ch.ID, &ch.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert character %s: %w", ch.Name, err)
		}
	}
	return tx.Commit(ctx)
}

// GetByID fetches a character by internal ID
func (r *CharacterRepository) GetByID(ctx context.Context, characterID string) (*domain.Character, error) {
	query := characterSelect + ` WHERE character_id = $1`
	return scanCharacter(r.db.QueryRow(ctx, query, characterID))
}

// GetByNameRealm fetches a character by its in-game identity
func (r *CharacterRepository) GetByNameRealm(ctx context.Context, region, realm, name string) (*domain.Character, error) {
	query := characterSelect + ` WHERE region = $1 AND realm = $2 AND LOWER(name) = LOWER($3)`
	return scanCharacter(r.db.QueryRow(ctx, query, region, realm, name))
}

// ListByUser fetches all characters attached to a user
func (r *CharacterRepository) ListByUser(ctx context.Context, userID string) ([]domain.Character, error) {
	query := characterSelect + ` WHERE user_id = $1 ORDER BY level DESC, name`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()
	return collectCharacters(rows)
}

// UpdateRole sets a character's raid role
func (r *CharacterRepository) UpdateRole(ctx context.Context, characterID string, role domain.CharacterRole) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE characters SET role = $2, updated_at = NOW() WHERE character_id = $1`,
		characterID, role)
	if err != nil {
		return fmt.Errorf("failed to update character role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character
func (r *CharacterRepository) Delete(ctx context.Context, characterID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE character_id = $1`, characterID)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

const characterSelect = `
	SELECT character_id, COALESCE(user_id::text, ''), name, realm, region,
	       class, spec, level, role, guild_rank, updated_at
	FROM characters
`

func scanCharacter(row pgx.Row) (*domain.Character, error) {
	var ch domain.Character
	err := row.Scan(&ch.ID, &ch.UserID, &ch.Name, &ch.Realm, &ch.Region,
		&ch.Class, &ch.Spec, &ch.Level, &ch.Role, &ch.GuildRank, &ch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return &ch, nil
}

func collectCharacters(rows pgx.Rows) ([]domain.Character, error) {
	var characters []domain.Character
	for rows.Next() {
		var ch domain.Character
		err := rows.Scan(&ch.ID, &ch.UserID, &ch.Name, &ch.Realm, &ch.Region,
			&ch.Class, &ch.Spec, &ch.Level, &ch.Role, &ch.GuildRank, &ch.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, ch)
	}
	return characters, rows.Err()
}

// nullableID converts an empty string to a SQL NULL for UUID columns
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
