package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"preemmachine/internal/domain"
)

// HierarchyRepositoryPG persists series, events, and races.
type HierarchyRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewHierarchyRepository creates a new hierarchy repo.
func NewHierarchyRepository(pool *pgxpool.Pool) *HierarchyRepositoryPG {
	return &HierarchyRepositoryPG{pool: pool}
}

// CreateSeries inserts a new series under its organization.
func (r *HierarchyRepositoryPG) CreateSeries(ctx context.Context, series *domain.Series) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO series (path, id, organization_id, name, region, website, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`, series.Path, series.ID, series.OrganizationID, series.Name, series.Region, series.Website, series.StartDate, series.EndDate)
	return err
}

// CreateEvent inserts a new event under its series.
func (r *HierarchyRepositoryPG) CreateEvent(ctx context.Context, event *domain.Event) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO events (path, id, series_path, name, location, website, status, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`, event.Path, event.ID, event.SeriesPath, event.Name, event.Location, event.Website, event.Status, event.StartDate, event.EndDate)
	return err
}

// CreateRace inserts a new race under its event.
func (r *HierarchyRepositoryPG) CreateRace(ctx context.Context, race *domain.Race) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO races (path, id, event_path, name, category, gender, location, course_details, laps, podiums, max_racers, status, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`, race.Path, race.ID, race.EventPath, race.Name, race.Category, race.Gender, race.Location, race.CourseDetails,
		race.Laps, race.Podiums, race.MaxRacers, race.Status, race.StartDate, race.EndDate)
	return err
}
