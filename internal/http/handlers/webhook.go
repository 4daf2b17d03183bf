package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"preemmachine/internal/domain"
	"preemmachine/internal/ledger"
	"preemmachine/internal/payments"
)

const maxWebhookBody = 1 << 20

// PaymentsWebhook ingests processor deliveries. Non-retryable failures
// (malformed metadata, unknown preem) are acknowledged so the processor
// stops redelivering; anything transient returns 500 to trigger redelivery.
func (a *App) PaymentsWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable payload")
		return
	}

	signature := r.Header.Get(payments.SignatureHeader)
	if signature == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "missing signature")
		return
	}
	if err := payments.VerifySignature(payload, signature, a.WebhookSecret, time.Now(), payments.DefaultTolerance); err != nil {
		a.Logger.Warn().Err(err).Msg("webhook signature rejected")
		a.error(w, http.StatusBadRequest, "bad_signature", "signature verification failed")
		return
	}

	event, err := payments.ParseEvent(payload)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid event payload")
		return
	}

	switch event.Type {
	case payments.EventPaymentSucceeded:
		a.handlePaymentSucceeded(w, r, event)
	case payments.EventAccountUpdated:
		a.handleAccountUpdated(w, r, event)
	default:
		a.Logger.Debug().Str("type", event.Type).Msg("unhandled webhook event type")
		a.json(w, http.StatusOK, map[string]bool{"received": true})
	}
}

func (a *App) handlePaymentSucceeded(w http.ResponseWriter, r *http.Request, event *payments.Event) {
	var intent payments.Intent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payment object")
		return
	}
	intent.Raw = event.Data.Object

	err := a.Updater.Process(r.Context(), &intent, ledger.Audit{
		Source:        "webhook",
		OriginCountry: a.originCountry(r),
	})
	switch {
	case errors.Is(err, domain.ErrMalformedPaymentMetadata), errors.Is(err, domain.ErrPreemNotFound):
		// Producer-side bugs: redelivery cannot fix them, so acknowledge.
		a.Logger.Error().Err(err).Str("payment_id", intent.ID).Msg("webhook payment rejected")
		a.json(w, http.StatusOK, map[string]bool{"received": true})
	case err != nil:
		a.Logger.Error().Err(err).Str("payment_id", intent.ID).Msg("webhook payment processing failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to process payment")
	default:
		a.json(w, http.StatusOK, map[string]bool{"received": true})
	}
}

func (a *App) handleAccountUpdated(w http.ResponseWriter, r *http.Request, event *payments.Event) {
	var account struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Object, &account); err != nil || account.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid account object")
		return
	}

	orgID, err := a.Orgs.UpdateConnectAccount(r.Context(), account.ID, event.Data.Object)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.Logger.Error().Str("connect_account_id", account.ID).Msg("no organization linked to connect account")
		a.json(w, http.StatusOK, map[string]bool{"received": true})
	case err != nil:
		a.Logger.Error().Err(err).Str("connect_account_id", account.ID).Msg("update connect account failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update organization")
	default:
		a.Logger.Info().Str("organization_id", orgID).Msg("organization connect account updated")
		a.json(w, http.StatusOK, map[string]bool{"received": true})
	}
}
