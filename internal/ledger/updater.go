// Package ledger applies successful payments to the contribution ledger.
//
// The updater is invoked from two independent call paths for the same
// payment: the client's optimistic confirmation and the processor's webhook
// delivery, which may arrive before, during, or after it. Both must converge
// to one contribution and one prize-pool increment per payment id.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"preemmachine/internal/domain"
	"preemmachine/internal/infra"
	"preemmachine/internal/payments"
	"preemmachine/internal/sqlinline"
)

// TxRunner executes a function inside one store transaction, re-running the
// whole body on conflict. infra.TxRunner is the production implementation.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx infra.SQLExecutor) error) error
}

// Audit describes the call site applying the payment. The fields end up in
// the contribution's properties for traceability.
type Audit struct {
	// Source is "webhook" or "optimistic".
	Source string
	// ActorID is the authenticated user on the optimistic path, empty for
	// webhook deliveries.
	ActorID string
	// OriginCountry is the best-effort GeoIP country of the request.
	OriginCountry string
}

// Updater records contributions and grows prize pools, exactly once per
// payment id.
type Updater struct {
	run    TxRunner
	logger zerolog.Logger
}

func NewUpdater(run TxRunner, logger zerolog.Logger) *Updater {
	return &Updater{run: run, logger: logger}
}

// Process applies a successful payment to the ledger. Inside one
// transaction it checks for an already-confirmed contribution (the dedup
// guard), verifies the target preem, snapshots the contributor, merge-writes
// the contribution as confirmed, and atomically increments the preem's prize
// pool. Duplicate deliveries commit as no-ops.
//
// The transaction body is a pure function of its reads; the runner may
// re-execute it after a conflict and the losing side of a same-payment race
// lands on the no-op path.
func (u *Updater) Process(ctx context.Context, intent *payments.Intent, audit Audit) error {
	preemPath := intent.Metadata[payments.MetadataPreemPath]
	userID := intent.Metadata[payments.MetadataUserID]
	if preemPath == "" || userID == "" {
		return fmt.Errorf("payment %s: %w", intent.ID, domain.ErrMalformedPaymentMetadata)
	}
	if _, err := domain.ParsePreemPath(preemPath); err != nil {
		return fmt.Errorf("payment %s: %w", intent.ID, domain.ErrMalformedPaymentMetadata)
	}
	if intent.Amount < 0 {
		return fmt.Errorf("payment %s: negative amount %d: %w", intent.ID, intent.Amount, domain.ErrMalformedPaymentMetadata)
	}
	isAnonymous := intent.Metadata[payments.MetadataAnonymous] == "true"

	return u.run.InTx(ctx, func(tx infra.SQLExecutor) error {
		var recordedPath, status string
		var recordedAmount int64
		err := tx.QueryRow(ctx, sqlinline.QSelectContribution, intent.ID).Scan(&recordedPath, &status, &recordedAmount)
		switch {
		case err == nil && recordedPath != preemPath:
			// Redelivery whose metadata now names a different preem. The
			// contribution stays attached to its original preem; honoring
			// the new path would grow a pool the row does not belong to.
			u.logger.Warn().
				Str("payment_id", intent.ID).
				Str("recorded_preem", recordedPath).
				Str("delivered_preem", preemPath).
				Msg("duplicate delivery with mismatched preem ignored")
			return nil
		case err == nil && status == string(domain.ContributionConfirmed):
			if recordedAmount != intent.Amount {
				// Redelivery with a different amount. The first confirmed
				// write wins; surface the discrepancy instead of silently
				// honoring either value.
				u.logger.Warn().
					Str("payment_id", intent.ID).
					Int64("recorded_amount", recordedAmount).
					Int64("delivered_amount", intent.Amount).
					Msg("duplicate delivery with mismatched amount ignored")
			}
			return nil
		case err != nil && !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("read contribution %s: %w", intent.ID, err)
		}

		var path string
		if err := tx.QueryRow(ctx, sqlinline.QSelectPreemPathExists, preemPath).Scan(&path); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("payment %s targets %s: %w", intent.ID, preemPath, domain.ErrPreemNotFound)
			}
			return fmt.Errorf("read preem %s: %w", preemPath, err)
		}

		// Contributor lookup is best effort: a missing user record yields a
		// null brief, not an error.
		var contributor []byte
		var brief domain.UserBrief
		err = tx.QueryRow(ctx, sqlinline.QSelectUserBrief, userID).Scan(&brief.ID, &brief.Name, &brief.AvatarURL)
		switch {
		case err == nil:
			contributor, err = json.Marshal(brief)
			if err != nil {
				return fmt.Errorf("encode contributor brief: %w", err)
			}
		case errors.Is(err, pgx.ErrNoRows):
			// leave contributor null
		default:
			return fmt.Errorf("read user %s: %w", userID, err)
		}

		properties, err := json.Marshal(auditProperties(audit, userID))
		if err != nil {
			return fmt.Errorf("encode contribution properties: %w", err)
		}

		raw := intent.Raw
		if len(raw) == 0 {
			raw, err = json.Marshal(intent)
			if err != nil {
				return fmt.Errorf("encode payment payload: %w", err)
			}
		}

		message := intent.Metadata[payments.MetadataMessage]
		if _, err := tx.Exec(ctx, sqlinline.QUpsertContribution,
			intent.ID, preemPath, intent.Amount, contributor, isAnonymous, message, raw, properties); err != nil {
			return fmt.Errorf("write contribution %s: %w", intent.ID, err)
		}

		if _, err := tx.Exec(ctx, sqlinline.QIncrementPrizePool, preemPath, intent.Amount); err != nil {
			return fmt.Errorf("increment prize pool for %s: %w", preemPath, err)
		}
		return nil
	})
}

func auditProperties(audit Audit, userID string) map[string]any {
	props := map[string]any{
		"contributor_user_id": userID,
	}
	if audit.Source != "" {
		props["source"] = audit.Source
	}
	if audit.ActorID != "" {
		props["actor_id"] = audit.ActorID
	}
	if audit.OriginCountry != "" {
		props["origin_country"] = audit.OriginCountry
	}
	return props
}
