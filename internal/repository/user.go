package repository

import (
	"context"
	"time"

	"github.com/wowlab/guildsim/internal/domain"
)

// User defines the interface for Battle.net account persistence
type User interface {
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByBnetID(ctx context.Context, bnetID int64) (*domain.User, error)
	TouchLogin(ctx context.Context, userID string, at time.Time) error
	Delete(ctx context.Context, userID string) error
}
