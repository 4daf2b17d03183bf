package handlers

import "net/http"

// Health answers the platform's liveness probe. It deliberately touches
// nothing past the handler: no pool, no payments client.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "preem-machine",
	})
}
