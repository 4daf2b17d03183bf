package domain

import (
	"context"
	"encoding/json"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// OrganizationRepository handles organization persistence.
type OrganizationRepository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	// UpdateConnectAccount stores the processor's account snapshot for the
	// organization owning the given connect account id and returns the
	// organization id, or ErrNotFound when no organization is linked to it.
	UpdateConnectAccount(ctx context.Context, connectAccountID string, snapshot json.RawMessage) (string, error)
}

// HierarchyRepository persists the series/event/race levels beneath an
// organization.
type HierarchyRepository interface {
	CreateSeries(ctx context.Context, series *Series) error
	CreateEvent(ctx context.Context, event *Event) error
	CreateRace(ctx context.Context, race *Race) error
}

// PreemRepository handles preem persistence. Prize-pool mutation is owned by
// the ledger updater and deliberately absent here.
type PreemRepository interface {
	Create(ctx context.Context, preem *Preem) error
	GetByPath(ctx context.Context, path string) (*Preem, error)
	ListByRace(ctx context.Context, racePath string) ([]Preem, error)
}
