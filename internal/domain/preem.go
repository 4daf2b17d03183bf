package domain

import "time"

// PreemType distinguishes how a prize is paid out.
type PreemType string

const (
	PreemPooled  PreemType = "Pooled"
	PreemOneShot PreemType = "One-Shot"
)

// PreemStatus tracks a preem's funding lifecycle.
type PreemStatus string

const (
	PreemOpen       PreemStatus = "Open"
	PreemMinimumMet PreemStatus = "Minimum Met"
	PreemAwarded    PreemStatus = "Awarded"
)

// Preem is a cash-prize target tied to one race. PrizePoolInt is the running
// total of confirmed contribution amounts in minor currency units and is
// mutated only by the ledger updater's atomic increment.
type Preem struct {
	ID                  string
	Path                string
	RacePath            string
	Name                string
	Type                PreemType
	Status              PreemStatus
	PrizePoolInt        int64
	MinimumThresholdInt int64
	TimeLimit           *time.Time
	SponsorUserID       *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
