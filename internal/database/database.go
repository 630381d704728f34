package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connectTimeout bounds the startup ping so a wedged database fails fast.
const connectTimeout = 10 * time.Second

// Pool is the subset of pgxpool.Pool the rest of the service depends on.
// Readiness checks and shutdown only need ping and close.
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// NewPool opens a PostgreSQL connection pool and verifies connectivity
// before returning it.
func NewPool(connString string, maxConns int, maxIdle, maxLife time.Duration) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	poolCfg.MaxConns = int32(maxConns)
	poolCfg.MinConns = DefaultMinConnections
	poolCfg.MaxConnIdleTime = maxIdle
	poolCfg.MaxConnLifetime = maxLife

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Info(LogMsgSuccessfullyConnectedToDatabase, "max_conns", maxConns)
	return pool, nil
}
