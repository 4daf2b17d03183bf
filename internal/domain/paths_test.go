package domain

import (
	"errors"
	"testing"
)

func TestPreemPathRoundTrip(t *testing.T) {
	path := PreemPath("org-1", "ser-1", "evt-1", "rac-1", "pre-1")
	want := "organizations/org-1/series/ser-1/events/evt-1/races/rac-1/preems/pre-1"
	if path != want {
		t.Fatalf("PreemPath = %q, want %q", path, want)
	}

	ref, err := ParsePreemPath(path)
	if err != nil {
		t.Fatalf("ParsePreemPath: %v", err)
	}
	if ref.OrganizationID != "org-1" || ref.SeriesID != "ser-1" || ref.EventID != "evt-1" ||
		ref.RaceID != "rac-1" || ref.PreemID != "pre-1" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
	if ref.Path() != path {
		t.Fatalf("ref.Path() = %q, want %q", ref.Path(), path)
	}
	if want := "organizations/org-1/series/ser-1/events/evt-1/races/rac-1"; ref.RacePath() != want {
		t.Fatalf("ref.RacePath() = %q, want %q", ref.RacePath(), want)
	}
}

func TestParsePreemPathRejectsMalformedPaths(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"wrong depth", "organizations/org-1/series/ser-1"},
		{"wrong collection", "orgs/org-1/series/ser-1/events/evt-1/races/rac-1/preems/pre-1"},
		{"shuffled collections", "series/ser-1/organizations/org-1/events/evt-1/races/rac-1/preems/pre-1"},
		{"empty id", "organizations//series/ser-1/events/evt-1/races/rac-1/preems/pre-1"},
		{"trailing slash", "organizations/org-1/series/ser-1/events/evt-1/races/rac-1/preems/pre-1/"},
		{"contribution path", "organizations/org-1/series/ser-1/events/evt-1/races/rac-1/preems/pre-1/contributions/c-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePreemPath(tc.path); !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("ParsePreemPath(%q) err = %v, want ErrInvalidPath", tc.path, err)
			}
		})
	}
}

func TestParseAncestorPaths(t *testing.T) {
	sref, err := ParseSeriesPath("organizations/org-1/series/ser-1")
	if err != nil {
		t.Fatalf("ParseSeriesPath: %v", err)
	}
	if sref.OrganizationID != "org-1" || sref.SeriesID != "ser-1" {
		t.Fatalf("unexpected series ref: %+v", sref)
	}

	eref, err := ParseEventPath("organizations/org-1/series/ser-1/events/evt-1")
	if err != nil {
		t.Fatalf("ParseEventPath: %v", err)
	}
	if eref.EventID != "evt-1" {
		t.Fatalf("unexpected event ref: %+v", eref)
	}

	rref, err := ParseRacePath("organizations/org-1/series/ser-1/events/evt-1/races/rac-1")
	if err != nil {
		t.Fatalf("ParseRacePath: %v", err)
	}
	if rref.Path() != "organizations/org-1/series/ser-1/events/evt-1/races/rac-1" {
		t.Fatalf("race ref path = %q", rref.Path())
	}

	if _, err := ParseRacePath("organizations/org-1/series/ser-1/events/evt-1/races/rac-1/preems/pre-1"); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for preem path, got %v", err)
	}
}

func TestContributionPath(t *testing.T) {
	preem := PreemPath("org-1", "ser-1", "evt-1", "rac-1", "pre-1")
	got := ContributionPath(preem, "pi_123")
	if want := preem + "/contributions/pi_123"; got != want {
		t.Fatalf("ContributionPath = %q, want %q", got, want)
	}
}
