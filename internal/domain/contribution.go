package domain

import (
	"encoding/json"
	"time"
)

// ContributionStatus is the ledger state of one payment.
type ContributionStatus string

const (
	ContributionPending   ContributionStatus = "pending"
	ContributionConfirmed ContributionStatus = "confirmed"
)

// Contribution records a single payment applied to one preem. Its ID equals
// the payment processor's identifier for the payment attempt, which makes it
// the idempotency key: at most one contribution exists per payment id.
// Once confirmed the record is immutable.
type Contribution struct {
	ID          string
	PreemPath   string
	AmountInt   int64
	Status      ContributionStatus
	Contributor *UserBrief
	IsAnonymous bool
	Message     string
	// Payment keeps the raw processor payload for audit.
	Payment    json.RawMessage
	Properties json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
