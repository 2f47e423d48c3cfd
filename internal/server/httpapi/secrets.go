package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pashield/pashield/internal/common"
)

const defaultListLimit = 100

type secretRequest struct {
	Location string `json:"location"`
	Username string `json:"username"`
	Password string `json:"password"`
	IconName string `json:"icon_name"`
}

func (r *Router) handleListSecrets(w http.ResponseWriter, req *http.Request) {
	user := currentUser(req.Context())

	offset := queryInt(req, "offset", 0)
	limit := queryInt(req, "limit", defaultListLimit)

	items, err := r.secrets.List(req.Context(), user.ID, offset, limit)
	if err != nil {
		r.secretError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (r *Router) handleCreateSecret(w http.ResponseWriter, req *http.Request) {
	user := currentUser(req.Context())

	var body secretRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Location == "" || body.Username == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "location, username and password required")
		return
	}

	created, err := r.secrets.Create(req.Context(), user.ID, body.Location, body.Username, body.Password, body.IconName)
	if err != nil {
		r.secretError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (r *Router) handleGetSecret(w http.ResponseWriter, req *http.Request) {
	user := currentUser(req.Context())

	item, err := r.secrets.Get(req.Context(), chi.URLParam(req, "id"), user.ID)
	if err != nil {
		r.secretError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (r *Router) handleUpdateSecret(w http.ResponseWriter, req *http.Request) {
	user := currentUser(req.Context())

	var body secretRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Location == "" || body.Username == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "location, username and password required")
		return
	}

	updated, err := r.secrets.Update(req.Context(), chi.URLParam(req, "id"), user.ID, body.Location, body.Username, body.Password, body.IconName)
	if err != nil {
		r.secretError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (r *Router) handleDeleteSecret(w http.ResponseWriter, req *http.Request) {
	user := currentUser(req.Context())

	deleted, err := r.secrets.Delete(req.Context(), chi.URLParam(req, "id"), user.ID)
	if err != nil {
		r.secretError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (r *Router) handleDeleteAllSecrets(w http.ResponseWriter, req *http.Request) {
	user := currentUser(req.Context())

	n, err := r.secrets.DeleteAll(req.Context(), user.ID)
	if err != nil {
		r.secretError(w, req, err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "no passwords found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// secretError maps service errors to status codes. Decryption failures are
// reported as a bare 500: the cause stays in the server log.
func (r *Router) secretError(w http.ResponseWriter, req *http.Request, err error) {
	var de *common.DecryptionError
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "password not found")
	case errors.As(err, &de):
		r.logger.Error(req.Context(), "payload decryption failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		r.logger.Error(req.Context(), "secret operation failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(req *http.Request, name string, def int) int {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
