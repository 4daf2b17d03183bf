package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"preemmachine/internal/domain"
)

type organizationCreateRequest struct {
	Name             string `json:"name"`
	ConnectAccountID string `json:"connect_account_id"`
}

// OrganizationCreate registers a new organization. Organizer only.
func (a *App) OrganizationCreate(w http.ResponseWriter, r *http.Request) {
	if !organizerRequest(r) {
		a.error(w, http.StatusForbidden, "forbidden", "organizer role required")
		return
	}
	var req organizationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	org := &domain.Organization{
		ID:               uuid.NewString(),
		Name:             req.Name,
		ConnectAccountID: req.ConnectAccountID,
	}
	if err := a.Orgs.Create(r.Context(), org); err != nil {
		a.Logger.Error().Err(err).Msg("create organization failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create organization")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{
		"id":   org.ID,
		"path": domain.OrganizationPath(org.ID),
	})
}

type seriesCreateRequest struct {
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	Region         string     `json:"region"`
	Website        string     `json:"website"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

// SeriesCreate adds a series beneath an organization. Organizer only.
func (a *App) SeriesCreate(w http.ResponseWriter, r *http.Request) {
	if !organizerRequest(r) {
		a.error(w, http.StatusForbidden, "forbidden", "organizer role required")
		return
	}
	var req seriesCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.OrganizationID == "" || req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "organization_id and name required")
		return
	}
	if _, err := a.Orgs.GetByID(r.Context(), req.OrganizationID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "organization not found")
		return
	}
	series := &domain.Series{
		ID:             uuid.NewString(),
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Region:         req.Region,
		Website:        req.Website,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	series.Path = domain.SeriesPath(req.OrganizationID, series.ID)
	if err := a.Hierarchy.CreateSeries(r.Context(), series); err != nil {
		a.Logger.Error().Err(err).Msg("create series failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create series")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": series.ID, "path": series.Path})
}

type eventCreateRequest struct {
	SeriesPath string     `json:"series_path"`
	Name       string     `json:"name"`
	Location   string     `json:"location"`
	Website    string     `json:"website"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// EventCreate adds an event beneath a series. Organizer only.
func (a *App) EventCreate(w http.ResponseWriter, r *http.Request) {
	if !organizerRequest(r) {
		a.error(w, http.StatusForbidden, "forbidden", "organizer role required")
		return
	}
	var req eventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	ids, err := domain.ParseSeriesPath(req.SeriesPath)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid series path")
		return
	}
	event := &domain.Event{
		ID:         uuid.NewString(),
		SeriesPath: req.SeriesPath,
		Name:       req.Name,
		Location:   req.Location,
		Website:    req.Website,
		Status:     domain.StatusUpcoming,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	event.Path = domain.EventPath(ids.OrganizationID, ids.SeriesID, event.ID)
	if err := a.Hierarchy.CreateEvent(r.Context(), event); err != nil {
		a.Logger.Error().Err(err).Msg("create event failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create event")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": event.ID, "path": event.Path})
}

type raceCreateRequest struct {
	EventPath     string     `json:"event_path"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Gender        string     `json:"gender"`
	Location      string     `json:"location"`
	CourseDetails string     `json:"course_details"`
	Laps          int        `json:"laps"`
	Podiums       int        `json:"podiums"`
	MaxRacers     int        `json:"max_racers"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

// RaceCreate adds a race beneath an event. Organizer only.
func (a *App) RaceCreate(w http.ResponseWriter, r *http.Request) {
	if !organizerRequest(r) {
		a.error(w, http.StatusForbidden, "forbidden", "organizer role required")
		return
	}
	var req raceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	ids, err := domain.ParseEventPath(req.EventPath)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid event path")
		return
	}
	race := &domain.Race{
		ID:            uuid.NewString(),
		EventPath:     req.EventPath,
		Name:          req.Name,
		Category:      req.Category,
		Gender:        req.Gender,
		Location:      req.Location,
		CourseDetails: req.CourseDetails,
		Laps:          req.Laps,
		Podiums:       req.Podiums,
		MaxRacers:     req.MaxRacers,
		Status:        domain.StatusUpcoming,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
	race.Path = domain.RacePath(ids.OrganizationID, ids.SeriesID, ids.EventID, race.ID)
	if err := a.Hierarchy.CreateRace(r.Context(), race); err != nil {
		a.Logger.Error().Err(err).Msg("create race failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create race")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": race.ID, "path": race.Path})
}
