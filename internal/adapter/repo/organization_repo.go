package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"preemmachine/internal/domain"
)

// OrganizationRepositoryPG implements OrganizationRepository using PostgreSQL.
type OrganizationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new organization repo.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepositoryPG {
	return &OrganizationRepositoryPG{pool: pool}
}

// Create inserts a new organization record.
func (r *OrganizationRepositoryPG) Create(ctx context.Context, org *domain.Organization) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO organizations (id, name, connect_account_id)
VALUES ($1, $2, nullif($3, ''));
`, org.ID, org.Name, org.ConnectAccountID)
	return err
}

// GetByID loads an organization by id.
func (r *OrganizationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	var org domain.Organization
	var connectAccountID *string
	var snapshot []byte
	err := r.pool.QueryRow(ctx, `
SELECT id, name, connect_account_id, connect_account, created_at, updated_at
FROM organizations
WHERE id = $1;
`, id).Scan(&org.ID, &org.Name, &connectAccountID, &snapshot, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if connectAccountID != nil {
		org.ConnectAccountID = *connectAccountID
	}
	org.ConnectAccount = json.RawMessage(snapshot)
	return &org, nil
}

// UpdateConnectAccount stores the processor's account snapshot for the
// organization linked to the given connect account id.
func (r *OrganizationRepositoryPG) UpdateConnectAccount(ctx context.Context, connectAccountID string, snapshot json.RawMessage) (string, error) {
	var orgID string
	err := r.pool.QueryRow(ctx, `
UPDATE organizations
SET connect_account = $2::jsonb, updated_at = now()
WHERE connect_account_id = $1
RETURNING id;
`, connectAccountID, []byte(snapshot)).Scan(&orgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return orgID, nil
}
