package httpapi

import (
	"errors"
	"net/http"

	"github.com/pashield/pashield/internal/common"
)

func (r *Router) handleCurrentUser(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(req.Context()))
}

func (r *Router) handleDeleteUser(w http.ResponseWriter, req *http.Request) {
	user := currentUser(req.Context())
	if err := r.users.DeleteAccount(req.Context(), user.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		r.logger.Error(req.Context(), "account deletion failed", "user_id", user.ID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
