// Package httpapi exposes the vault over HTTP: registration and token login
// are public, everything else sits behind the bearer-token middleware.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pashield/pashield/internal/logging"
	"github.com/pashield/pashield/internal/server/services"
)

type Router struct {
	users   *services.UserService
	secrets *services.SecretService
	icons   *services.IconService
	logger  logging.Logger
}

func NewRouter(users *services.UserService, secrets *services.SecretService, icons *services.IconService, logger logging.Logger) http.Handler {
	r := &Router{
		users:   users,
		secrets: secrets,
		icons:   icons,
		logger:  logger.With("module", "httpapi"),
	}
	mux := chi.NewRouter()

	mux.Get("/", r.handleHealth)
	mux.Post("/register", r.handleRegister)
	mux.Post("/token", r.handleToken)

	mux.Group(func(pr chi.Router) {
		pr.Use(r.authMiddleware)
		pr.Get("/users/me", r.handleCurrentUser)
		pr.Delete("/users/me", r.handleDeleteUser)
		pr.Get("/passwords", r.handleListSecrets)
		pr.Post("/passwords", r.handleCreateSecret)
		pr.Delete("/passwords", r.handleDeleteAllSecrets)
		pr.Get("/passwords/{id}", r.handleGetSecret)
		pr.Put("/passwords/{id}", r.handleUpdateSecret)
		pr.Delete("/passwords/{id}", r.handleDeleteSecret)
		pr.Post("/icons/presign", r.handlePresignIcon)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
