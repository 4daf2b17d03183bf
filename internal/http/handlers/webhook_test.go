package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"preemmachine/internal/domain"
	"preemmachine/internal/payments"
)

const webhookSecret = "whsec_test"

type fakeOrgs struct {
	orgsByAccount map[string]string
	updateErr     error
	snapshots     map[string]json.RawMessage
}

func (f *fakeOrgs) Create(context.Context, *domain.Organization) error { return nil }

func (f *fakeOrgs) GetByID(context.Context, string) (*domain.Organization, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeOrgs) UpdateConnectAccount(_ context.Context, connectAccountID string, snapshot json.RawMessage) (string, error) {
	if f.updateErr != nil {
		return "", f.updateErr
	}
	orgID, ok := f.orgsByAccount[connectAccountID]
	if !ok {
		return "", domain.ErrNotFound
	}
	if f.snapshots == nil {
		f.snapshots = map[string]json.RawMessage{}
	}
	f.snapshots[orgID] = snapshot
	return orgID, nil
}

func signedWebhookRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	now := time.Now()
	req := httptest.NewRequest("POST", "/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set(payments.SignatureHeader,
		fmt.Sprintf("t=%d,v1=%s", now.Unix(), payments.Sign(payload, webhookSecret, now)))
	return req
}

func paymentSucceededPayload(paymentID string, amount int64) []byte {
	object := fmt.Sprintf(`{"id":%q,"amount":%d,"currency":"usd","status":"succeeded","metadata":{"preemPath":%q,"userId":"user-1"}}`,
		paymentID, amount, feedPreemPath)
	return []byte(fmt.Sprintf(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":%s}}`, object))
}

func TestPaymentsWebhookProcessesSucceededPayment(t *testing.T) {
	processor := &fakeProcessor{}
	app := &App{Logger: zerolog.Nop(), WebhookSecret: webhookSecret, Updater: processor, Orgs: &fakeOrgs{}}

	rr := httptest.NewRecorder()
	app.PaymentsWebhook(rr, signedWebhookRequest(t, paymentSucceededPayload("pi_1", 10000)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body)
	}
	if len(processor.calls) != 1 {
		t.Fatalf("processor called %d times, want 1", len(processor.calls))
	}
	call := processor.calls[0]
	if call.intent.ID != "pi_1" || call.intent.Amount != 10000 {
		t.Fatalf("unexpected intent: %+v", call.intent)
	}
	if call.audit.Source != "webhook" || call.audit.ActorID != "" {
		t.Fatalf("unexpected audit: %+v", call.audit)
	}
	if len(call.intent.Raw) == 0 {
		t.Fatal("expected raw payload on the intent")
	}
}

func TestPaymentsWebhookRejectsBadSignatures(t *testing.T) {
	processor := &fakeProcessor{}
	app := &App{Logger: zerolog.Nop(), WebhookSecret: webhookSecret, Updater: processor}

	payload := paymentSucceededPayload("pi_1", 10000)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/payments/webhook", bytes.NewReader(payload))
		rr := httptest.NewRecorder()
		app.PaymentsWebhook(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		tampered := paymentSucceededPayload("pi_1", 999999)
		req := httptest.NewRequest("POST", "/v1/payments/webhook", bytes.NewReader(tampered))
		now := time.Now()
		// Signature computed over the original payload, body carries the tampered one.
		req.Header.Set(payments.SignatureHeader,
			fmt.Sprintf("t=%d,v1=%s", now.Unix(), payments.Sign(payload, webhookSecret, now)))
		rr := httptest.NewRecorder()
		app.PaymentsWebhook(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	if len(processor.calls) != 0 {
		t.Fatalf("processor ran %d times for rejected deliveries", len(processor.calls))
	}
}

func TestPaymentsWebhookAcksNonRetryableFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"malformed metadata", fmt.Errorf("payment pi_1: %w", domain.ErrMalformedPaymentMetadata)},
		{"preem not found", fmt.Errorf("payment pi_1: %w", domain.ErrPreemNotFound)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := &App{Logger: zerolog.Nop(), WebhookSecret: webhookSecret, Updater: &fakeProcessor{err: tc.err}}

			rr := httptest.NewRecorder()
			app.PaymentsWebhook(rr, signedWebhookRequest(t, paymentSucceededPayload("pi_1", 10000)))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 ack so the processor stops redelivering", rr.Code)
			}
		})
	}
}

func TestPaymentsWebhookSignalsTransientFailures(t *testing.T) {
	app := &App{
		Logger:        zerolog.Nop(),
		WebhookSecret: webhookSecret,
		Updater:       &fakeProcessor{err: errors.New("store unavailable")},
	}

	rr := httptest.NewRecorder()
	app.PaymentsWebhook(rr, signedWebhookRequest(t, paymentSucceededPayload("pi_1", 10000)))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the processor redelivers", rr.Code)
	}
}

func TestPaymentsWebhookAccountUpdated(t *testing.T) {
	orgs := &fakeOrgs{orgsByAccount: map[string]string{"acct_1": "org-1"}}
	app := &App{Logger: zerolog.Nop(), WebhookSecret: webhookSecret, Orgs: orgs}

	payload := []byte(`{"id":"evt_2","type":"account.updated","data":{"object":{"id":"acct_1","charges_enabled":true}}}`)
	rr := httptest.NewRecorder()
	app.PaymentsWebhook(rr, signedWebhookRequest(t, payload))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	snapshot, ok := orgs.snapshots["org-1"]
	if !ok {
		t.Fatal("snapshot was not stored")
	}
	var decoded map[string]any
	if err := json.Unmarshal(snapshot, &decoded); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if decoded["charges_enabled"] != true {
		t.Fatalf("unexpected snapshot: %v", decoded)
	}
}

func TestPaymentsWebhookAccountUpdatedUnknownAccount(t *testing.T) {
	app := &App{
		Logger:        zerolog.Nop(),
		WebhookSecret: webhookSecret,
		Orgs:          &fakeOrgs{orgsByAccount: map[string]string{}},
	}

	payload := []byte(`{"id":"evt_3","type":"account.updated","data":{"object":{"id":"acct_missing"}}}`)
	rr := httptest.NewRecorder()
	app.PaymentsWebhook(rr, signedWebhookRequest(t, payload))

	// Unknown accounts are logged and acked; redelivery will not help.
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestPaymentsWebhookUnknownEventType(t *testing.T) {
	processor := &fakeProcessor{}
	app := &App{Logger: zerolog.Nop(), WebhookSecret: webhookSecret, Updater: processor}

	payload := []byte(`{"id":"evt_4","type":"charge.refunded","data":{"object":{}}}`)
	rr := httptest.NewRecorder()
	app.PaymentsWebhook(rr, signedWebhookRequest(t, payload))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if len(processor.calls) != 0 {
		t.Fatalf("processor ran for an unhandled event type")
	}
}
