package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wowlab/guildsim/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts a new user or refreshes an existing one keyed by the
// Battle.net account ID. The user's ID and timestamps are filled in.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (bnet_id, battletag, region, locale)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (bnet_id) DO UPDATE
		SET battletag = EXCLUDED.battletag,
		    region = EXCLUDED.region,
		    locale = EXCLUDED.locale,
		    last_login = NOW()
		RETURNING user_id, created_at, last_login
	`
	err := r.db.QueryRow(ctx, query, user.BnetID, user.BattleTag, user.Region, user.Locale).
		Scan(&user.ID, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by internal ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, bnet_id, battletag, region, locale, created_at, last_login
		FROM users
		WHERE user_id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, userID))
}

// GetByBnetID fetches a user by Battle.net account ID
func (r *UserRepository) GetByBnetID(ctx context.Context, bnetID int64) (*domain.User, error) {
	query := `
		SELECT user_id, bnet_id, battletag, region, locale, created_at, last_login
		FROM users
		WHERE bnet_id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, bnetID))
}

// TouchLogin records a login time
func (r *UserRepository) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET last_login = $2 WHERE user_id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("failed to touch login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user and, via cascades, their rosters
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.BnetID, &user.BattleTag, &user.Region, &user.Locale,
		&user.CreatedAt, &user.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
