package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"preemmachine/internal/domain"
	"preemmachine/internal/ledger"
	"preemmachine/internal/payments"
	"preemmachine/internal/sqlinline"
)

type contributionIntentRequest struct {
	AmountMinor int64  `json:"amount_minor"`
	PreemPath   string `json:"preem_path"`
	IsAnonymous bool   `json:"is_anonymous"`
	Message     string `json:"message"`
}

// ContributionIntentCreate registers a payment intent carrying the metadata
// the ledger updater needs on delivery.
func (a *App) ContributionIntentCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req contributionIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.AmountMinor <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}
	if _, err := domain.ParsePreemPath(req.PreemPath); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid preem path")
		return
	}

	var path string
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QSelectPreemPathExists, req.PreemPath).Scan(&path); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "preem not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load preem")
		return
	}

	metadata := map[string]string{
		payments.MetadataPreemPath: req.PreemPath,
		payments.MetadataUserID:    userID,
		payments.MetadataAnonymous: strconv.FormatBool(req.IsAnonymous),
	}
	if req.Message != "" {
		metadata[payments.MetadataMessage] = req.Message
	}

	intent, err := a.Payments.CreateIntent(r.Context(), payments.IntentRequest{
		Amount:   req.AmountMinor,
		Currency: a.Currency,
		Metadata: metadata,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("preem_path", req.PreemPath).Msg("create payment intent failed")
		a.error(w, http.StatusBadGateway, "payment_unavailable", "failed to create payment intent")
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"id":            intent.ID,
		"client_secret": intent.ClientSecret,
	})
}

// ContributionConfirm is the optimistic confirmation path: the browser calls
// it with a payment id right after the processor reports success, without
// waiting for the webhook. Processing is idempotent against the webhook
// delivering the same payment concurrently.
func (a *App) ContributionConfirm(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "payment id required")
		return
	}

	intent, err := a.Payments.GetIntent(r.Context(), paymentID)
	if err != nil {
		a.Logger.Error().Err(err).Str("payment_id", paymentID).Msg("retrieve payment intent failed")
		a.error(w, http.StatusBadGateway, "payment_unavailable", "failed to retrieve payment")
		return
	}
	if intent.Status != payments.StatusSucceeded {
		a.error(w, http.StatusConflict, "payment_not_succeeded", "payment has not succeeded")
		return
	}

	err = a.Updater.Process(r.Context(), intent, ledger.Audit{
		Source:        "optimistic",
		ActorID:       userID,
		OriginCountry: a.originCountry(r),
	})
	switch {
	case errors.Is(err, domain.ErrMalformedPaymentMetadata):
		a.error(w, http.StatusUnprocessableEntity, "malformed_metadata", "payment metadata is incomplete")
	case errors.Is(err, domain.ErrPreemNotFound):
		a.error(w, http.StatusNotFound, "not_found", "preem not found")
	case err != nil:
		a.Logger.Error().Err(err).Str("payment_id", paymentID).Msg("process contribution failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record contribution")
	default:
		a.json(w, http.StatusOK, map[string]string{"status": "confirmed"})
	}
}

// ContributionsRecent is the public live feed. Anonymous rows keep their
// amounts but drop the contributor.
func (a *App) ContributionsRecent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListRecentContributions, limit)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load contributions")
		return
	}
	defer rows.Close()

	var items []map[string]any
	for rows.Next() {
		var id, preemPath, message, preemName string
		var amountInt int64
		var contributor []byte
		var isAnonymous bool
		var createdAt time.Time
		if err := rows.Scan(&id, &preemPath, &amountInt, &contributor, &isAnonymous, &message, &createdAt, &preemName); err != nil {
			a.Logger.Error().Err(err).Msg("scan contribution feed row")
			continue
		}
		items = append(items, map[string]any{
			"id":          id,
			"preem_path":  preemPath,
			"preem_name":  preemName,
			"amount":      domain.AmountDecimal(amountInt),
			"display":     domain.DisplayAmount(amountInt, a.Currency),
			"contributor": feedContributor(contributor, isAnonymous),
			"message":     message,
			"created_at":  createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func feedContributor(raw []byte, isAnonymous bool) any {
	if isAnonymous || len(raw) == 0 {
		return nil
	}
	var brief domain.UserBrief
	if err := json.Unmarshal(raw, &brief); err != nil {
		return nil
	}
	return brief
}
