package payments

import "encoding/json"

// Payment-intent statuses the service cares about.
const (
	StatusSucceeded = "succeeded"
)

// Metadata keys the service stamps onto intents at creation time. The ledger
// updater reads the same keys back on delivery.
const (
	MetadataPreemPath = "preemPath"
	MetadataUserID    = "userId"
	MetadataAnonymous = "isAnonymous"
	MetadataMessage   = "message"
)

// Intent is the processor's record of one payment attempt. ID is globally
// unique per attempt and doubles as the contribution idempotency key.
type Intent struct {
	ID           string            `json:"id"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ClientSecret string            `json:"client_secret,omitempty"`
	Metadata     map[string]string `json:"metadata"`

	// Raw is the processor payload as received, kept for the audit trail.
	Raw json.RawMessage `json:"-"`
}

// IntentRequest describes a new payment intent.
type IntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}
