package domain

import (
	"fmt"
	"strings"
)

// Documents are addressed by hierarchical paths:
//
//	organizations/{o}
//	organizations/{o}/series/{s}
//	organizations/{o}/series/{s}/events/{e}
//	organizations/{o}/series/{s}/events/{e}/races/{r}
//	organizations/{o}/series/{s}/events/{e}/races/{r}/preems/{p}
//
// and a contribution lives under its preem's contributions collection.

func OrganizationPath(organizationID string) string {
	return "organizations/" + organizationID
}

func SeriesPath(organizationID, seriesID string) string {
	return OrganizationPath(organizationID) + "/series/" + seriesID
}

func EventPath(organizationID, seriesID, eventID string) string {
	return SeriesPath(organizationID, seriesID) + "/events/" + eventID
}

func RacePath(organizationID, seriesID, eventID, raceID string) string {
	return EventPath(organizationID, seriesID, eventID) + "/races/" + raceID
}

func PreemPath(organizationID, seriesID, eventID, raceID, preemID string) string {
	return RacePath(organizationID, seriesID, eventID, raceID) + "/preems/" + preemID
}

func ContributionPath(preemPath, contributionID string) string {
	return preemPath + "/contributions/" + contributionID
}

// PreemRef is the parsed form of a preem path. The intermediate refs double
// as breadcrumbs for the preem's ancestors.
type PreemRef struct {
	OrganizationID string
	SeriesID       string
	EventID        string
	RaceID         string
	PreemID        string
}

func (r PreemRef) Path() string {
	return PreemPath(r.OrganizationID, r.SeriesID, r.EventID, r.RaceID, r.PreemID)
}

func (r PreemRef) RacePath() string {
	return RacePath(r.OrganizationID, r.SeriesID, r.EventID, r.RaceID)
}

// SeriesRef is the parsed form of a series path.
type SeriesRef struct {
	OrganizationID string
	SeriesID       string
}

// EventRef is the parsed form of an event path.
type EventRef struct {
	OrganizationID string
	SeriesID       string
	EventID        string
}

// RaceRef is the parsed form of a race path.
type RaceRef struct {
	OrganizationID string
	SeriesID       string
	EventID        string
	RaceID         string
}

func (r RaceRef) Path() string {
	return RacePath(r.OrganizationID, r.SeriesID, r.EventID, r.RaceID)
}

// ParsePreemPath validates and splits a preem path.
func ParsePreemPath(path string) (PreemRef, error) {
	ids, err := parsePath(path, "organizations", "series", "events", "races", "preems")
	if err != nil {
		return PreemRef{}, err
	}
	return PreemRef{
		OrganizationID: ids[0],
		SeriesID:       ids[1],
		EventID:        ids[2],
		RaceID:         ids[3],
		PreemID:        ids[4],
	}, nil
}

// ParseSeriesPath validates and splits a series path.
func ParseSeriesPath(path string) (SeriesRef, error) {
	ids, err := parsePath(path, "organizations", "series")
	if err != nil {
		return SeriesRef{}, err
	}
	return SeriesRef{OrganizationID: ids[0], SeriesID: ids[1]}, nil
}

// ParseEventPath validates and splits an event path.
func ParseEventPath(path string) (EventRef, error) {
	ids, err := parsePath(path, "organizations", "series", "events")
	if err != nil {
		return EventRef{}, err
	}
	return EventRef{OrganizationID: ids[0], SeriesID: ids[1], EventID: ids[2]}, nil
}

// ParseRacePath validates and splits a race path.
func ParseRacePath(path string) (RaceRef, error) {
	ids, err := parsePath(path, "organizations", "series", "events", "races")
	if err != nil {
		return RaceRef{}, err
	}
	return RaceRef{
		OrganizationID: ids[0],
		SeriesID:       ids[1],
		EventID:        ids[2],
		RaceID:         ids[3],
	}, nil
}

func parsePath(path string, collections ...string) ([]string, error) {
	segments := strings.Split(path, "/")
	if len(segments) != 2*len(collections) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	ids := make([]string, 0, len(collections))
	for i, collection := range collections {
		if segments[2*i] != collection {
			return nil, fmt.Errorf("%w: %q, expected collection %q", ErrInvalidPath, path, collection)
		}
		id := segments[2*i+1]
		if id == "" {
			return nil, fmt.Errorf("%w: %q, empty id for %q", ErrInvalidPath, path, collection)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
