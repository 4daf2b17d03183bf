package httpapi

import (
	"net/http"
	"time"

	"preemmachine/internal/http/handlers"
	"preemmachine/internal/infra"
	appmw "preemmachine/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		appmw.Logger(app.Logger),
		appmw.CORS(cfg.AllowedOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Processor deliveries authenticate via signed payloads, not JWTs.
	r.Post("/v1/payments/webhook", app.PaymentsWebhook)

	r.Post("/v1/auth/google", app.AuthGoogleVerify)

	r.Get("/v1/contributions/recent", app.ContributionsRecent)
	r.Get("/v1/preems", app.PreemsByRace)
	r.Get("/v1/preems/*", app.PreemGet)

	r.Group(func(r chi.Router) {
		r.Use(appmw.AuthJWT(cfg.JWTSecret))

		r.Get("/v1/me", app.Me)

		r.Group(func(r chi.Router) {
			r.Use(appmw.RateLimit(cfg.RateLimitPerMin, time.Minute))
			r.Post("/v1/contributions/intent", app.ContributionIntentCreate)
		})
		r.Post("/v1/contributions/{paymentID}/confirm", app.ContributionConfirm)

		r.Post("/v1/organizations", app.OrganizationCreate)
		r.Post("/v1/series", app.SeriesCreate)
		r.Post("/v1/events", app.EventCreate)
		r.Post("/v1/races", app.RaceCreate)
		r.Post("/v1/preems", app.PreemCreate)
	})

	return r
}
