package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook deliveries are signed with a header of the form
//
//	t=<unix seconds>,v1=<hex hmac-sha256 of "<t>.<payload>">
//
// The timestamp bounds replay windows; the HMAC binds the payload.

const (
	// SignatureHeader carries the webhook signature.
	SignatureHeader = "Payment-Signature"

	// DefaultTolerance is how far a delivery timestamp may drift.
	DefaultTolerance = 5 * time.Minute
)

var (
	ErrInvalidSignature = errors.New("payments: invalid webhook signature")
	ErrStaleDelivery    = errors.New("payments: webhook delivery outside tolerance")
)

// Event types handled by the service.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventAccountUpdated   = "account.updated"
)

// Event is a webhook envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a webhook payload.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("payments: decode webhook event: %w", err)
	}
	if event.Type == "" {
		return nil, errors.New("payments: webhook event missing type")
	}
	return &event, nil
}

// VerifySignature checks a webhook delivery against the shared secret.
func VerifySignature(payload []byte, header, secret string, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var timestamp int64
	var signature string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signature = value
		}
	}
	if timestamp == 0 || signature == "" {
		return ErrInvalidSignature
	}

	drift := now.Sub(time.Unix(timestamp, 0))
	if drift > tolerance || drift < -tolerance {
		return ErrStaleDelivery
	}

	expected := Sign(payload, secret, time.Unix(timestamp, 0))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the v1 signature for a payload at the given timestamp.
func Sign(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(at.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
