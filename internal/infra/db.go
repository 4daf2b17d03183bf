package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewDBPool initializes a new pgx connection pool using the provided configuration.
func NewDBPool(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return pool, nil
}

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxRunner executes a function inside a serializable transaction and retries
// the whole body on commit-time conflicts, the way a managed document store's
// transaction layer would. The body must be a pure function of its reads so
// re-execution is safe.
type TxRunner struct {
	DB          TxBeginner
	Logger      zerolog.Logger
	MaxAttempts int
}

const defaultTxAttempts = 5

// InTx runs fn inside one serializable transaction, retrying on
// serialization failures, deadlocks, and unique-key races.
func (r *TxRunner) InTx(ctx context.Context, fn func(tx SQLExecutor) error) error {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = defaultTxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !RetryableTxError(err) {
			return err
		}
		r.Logger.Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx SQLExecutor) error) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RetryableTxError reports whether the error is a transient conflict that a
// fresh transaction attempt can resolve.
func RetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "23505":
		// serialization_failure, deadlock_detected, unique_violation.
		return true
	}
	return false
}
