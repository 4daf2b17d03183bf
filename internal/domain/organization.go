package domain

import (
	"encoding/json"
	"time"
)

// Organization runs race series and receives payouts through a connected
// payment-processor account.
type Organization struct {
	ID               string
	Name             string
	ConnectAccountID string
	// ConnectAccount holds the processor's latest account snapshot as
	// delivered by account webhooks, kept verbatim for audit.
	ConnectAccount json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
