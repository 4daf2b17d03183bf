package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"preemmachine/internal/domain"
	"preemmachine/internal/middleware"
	"preemmachine/internal/sqlinline"
)

type preemCreateRequest struct {
	RacePath              string     `json:"race_path"`
	Name                  string     `json:"name"`
	Type                  string     `json:"type"`
	MinimumThresholdMinor int64      `json:"minimum_threshold_minor"`
	TimeLimit             *time.Time `json:"time_limit"`
}

// PreemCreate adds a preem beneath a race. Organizer only.
func (a *App) PreemCreate(w http.ResponseWriter, r *http.Request) {
	if !organizerRequest(r) {
		a.error(w, http.StatusForbidden, "forbidden", "organizer role required")
		return
	}
	var req preemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	ref, err := domain.ParseRacePath(req.RacePath)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid race path")
		return
	}

	preemType := domain.PreemType(req.Type)
	if preemType != domain.PreemOneShot {
		preemType = domain.PreemPooled
	}

	preem := &domain.Preem{
		ID:                  uuid.NewString(),
		RacePath:            ref.Path(),
		Name:                req.Name,
		Type:                preemType,
		Status:              domain.PreemOpen,
		MinimumThresholdInt: req.MinimumThresholdMinor,
		TimeLimit:           req.TimeLimit,
	}
	preem.Path = domain.PreemPath(ref.OrganizationID, ref.SeriesID, ref.EventID, ref.RaceID, preem.ID)

	if err := a.Preems.Create(r.Context(), preem); err != nil {
		a.Logger.Error().Err(err).Str("race_path", preem.RacePath).Msg("create preem failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create preem")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": preem.ID, "path": preem.Path})
}

// PreemGet returns a preem and its contribution ledger. The preem path is
// the URL tail, e.g. /v1/preems/organizations/o1/series/s1/events/e1/races/r1/preems/p1.
func (a *App) PreemGet(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if _, err := domain.ParsePreemPath(path); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid preem path")
		return
	}

	preem, err := a.Preems.GetByPath(r.Context(), path)
	if err != nil {
		if err == domain.ErrPreemNotFound {
			a.error(w, http.StatusNotFound, "not_found", "preem not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load preem")
		return
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListContributionsForPreem, path)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load contributions")
		return
	}
	defer rows.Close()

	var contributions []map[string]any
	for rows.Next() {
		var id, status, message string
		var amountInt int64
		var contributor []byte
		var isAnonymous bool
		var createdAt time.Time
		if err := rows.Scan(&id, &amountInt, &status, &contributor, &isAnonymous, &message, &createdAt); err != nil {
			a.Logger.Error().Err(err).Str("preem_path", preem.Path).Msg("scan preem contribution row")
			continue
		}
		contributions = append(contributions, map[string]any{
			"id":          id,
			"amount":      domain.AmountDecimal(amountInt),
			"display":     domain.DisplayAmount(amountInt, a.Currency),
			"status":      status,
			"contributor": feedContributor(contributor, isAnonymous),
			"message":     message,
			"created_at":  createdAt,
		})
	}

	a.json(w, http.StatusOK, map[string]any{
		"preem":         preemDTO(preem, a.Currency),
		"contributions": contributions,
	})
}

// PreemsByRace lists the preems of a race given by the `race` query param.
func (a *App) PreemsByRace(w http.ResponseWriter, r *http.Request) {
	racePath := r.URL.Query().Get("race")
	if _, err := domain.ParseRacePath(racePath); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid race path")
		return
	}

	preems, err := a.Preems.ListByRace(r.Context(), racePath)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load preems")
		return
	}

	items := make([]map[string]any, 0, len(preems))
	for i := range preems {
		items = append(items, preemDTO(&preems[i], a.Currency))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func preemDTO(preem *domain.Preem, currency string) map[string]any {
	return map[string]any{
		"id":                 preem.ID,
		"path":               preem.Path,
		"race_path":          preem.RacePath,
		"name":               preem.Name,
		"type":               preem.Type,
		"status":             preem.Status,
		"prize_pool":         domain.AmountDecimal(preem.PrizePoolInt),
		"prize_pool_display": domain.DisplayAmount(preem.PrizePoolInt, currency),
		"minimum_threshold":  domain.AmountDecimal(preem.MinimumThresholdInt),
		"time_limit":         preem.TimeLimit,
	}
}

func organizerRequest(r *http.Request) bool {
	return domain.UserRole(middleware.UserRoleFromContext(r.Context())).CanOrganize()
}
