package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"preemmachine/internal/domain"
	"preemmachine/internal/infra"
	"preemmachine/internal/infra/geoip"
	"preemmachine/internal/ledger"
	"preemmachine/internal/middleware"
	"preemmachine/internal/payments"
)

// TokenVerifier validates an external identity token and returns its claims.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (map[string]any, error)
}

// PaymentClient is the processor surface the handlers need.
type PaymentClient interface {
	CreateIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error)
	GetIntent(ctx context.Context, id string) (*payments.Intent, error)
}

// ContributionProcessor applies a successful payment to the ledger.
type ContributionProcessor interface {
	Process(ctx context.Context, intent *payments.Intent, audit ledger.Audit) error
}

// App is the handler container; cmd/api owns construction and lifecycle.
type App struct {
	SQL            infra.SQLExecutor
	Logger         zerolog.Logger
	JWTSecret      string
	WebhookSecret  string
	Currency       string
	GoogleVerifier TokenVerifier
	Payments       PaymentClient
	Updater        ContributionProcessor
	Geo            geoip.CountryResolver
	Users          domain.UserRepository
	Orgs           domain.OrganizationRepository
	Hierarchy      domain.HierarchyRepository
	Preems         domain.PreemRepository
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// originCountry resolves the request's country code, best effort.
func (a *App) originCountry(r *http.Request) string {
	if a.Geo == nil {
		return ""
	}
	country, err := a.Geo.CountryCode(middleware.ClientIP(r))
	if err != nil {
		return ""
	}
	return country
}
