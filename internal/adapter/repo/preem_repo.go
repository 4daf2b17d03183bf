package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"preemmachine/internal/domain"
	"preemmachine/internal/sqlinline"
)

// PreemRepositoryPG implements PreemRepository using PostgreSQL. Prize-pool
// mutation happens only inside the ledger updater's transaction; this repo
// never touches prize_pool_int beyond reading it.
type PreemRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPreemRepository creates a new preem repo.
func NewPreemRepository(pool *pgxpool.Pool) *PreemRepositoryPG {
	return &PreemRepositoryPG{pool: pool}
}

// Create inserts a new preem record.
func (r *PreemRepositoryPG) Create(ctx context.Context, preem *domain.Preem) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO preems (path, id, race_path, name, type, status, prize_pool_int, minimum_threshold_int, time_limit, sponsor_user_id)
VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9);
`, preem.Path, preem.ID, preem.RacePath, preem.Name, preem.Type, preem.Status,
		preem.MinimumThresholdInt, preem.TimeLimit, preem.SponsorUserID)
	return err
}

// GetByPath loads a preem by its document path.
func (r *PreemRepositoryPG) GetByPath(ctx context.Context, path string) (*domain.Preem, error) {
	row := r.pool.QueryRow(ctx, sqlinline.QSelectPreemByPath, path)
	preem, err := scanPreem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPreemNotFound
		}
		return nil, err
	}
	return preem, nil
}

// ListByRace returns the preems attached to a race.
func (r *PreemRepositoryPG) ListByRace(ctx context.Context, racePath string) ([]domain.Preem, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QListPreemsByRace, racePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Preem
	for rows.Next() {
		preem, err := scanPreem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *preem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanPreem(row pgx.Row) (*domain.Preem, error) {
	var preem domain.Preem
	var minThreshold *int64
	if err := row.Scan(&preem.Path, &preem.ID, &preem.RacePath, &preem.Name, &preem.Type, &preem.Status,
		&preem.PrizePoolInt, &minThreshold, &preem.TimeLimit, &preem.CreatedAt, &preem.UpdatedAt); err != nil {
		return nil, err
	}
	if minThreshold != nil {
		preem.MinimumThresholdInt = *minThreshold
	}
	return &preem, nil
}
