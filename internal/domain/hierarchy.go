package domain

import "time"

// ScheduleStatus tracks where an event or race sits in its lifecycle.
type ScheduleStatus string

const (
	StatusUpcoming ScheduleStatus = "Upcoming"
	StatusLive     ScheduleStatus = "Live"
	StatusFinished ScheduleStatus = "Finished"
)

// Series is a season of events run by one organization.
type Series struct {
	ID             string
	Path           string
	OrganizationID string
	Name           string
	Region         string
	Website        string
	StartDate      *time.Time
	EndDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Event is a race day within a series.
type Event struct {
	ID         string
	Path       string
	SeriesPath string
	Name       string
	Location   string
	Website    string
	Status     ScheduleStatus
	StartDate  *time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Race is a single start within an event. Preems hang off races.
type Race struct {
	ID            string
	Path          string
	EventPath     string
	Name          string
	Category      string
	Gender        string
	Location      string
	CourseDetails string
	Laps          int
	Podiums       int
	MaxRacers     int
	CurrentRacers int
	Status        ScheduleStatus
	StartDate     *time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
