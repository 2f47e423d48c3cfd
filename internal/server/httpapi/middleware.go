package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pashield/pashield/internal/common"
	"github.com/pashield/pashield/internal/server/models"
)

type contextKey string

const userContextKey contextKey = "user"

// authMiddleware resolves the Authorization bearer token to an existing user
// and stores the user in the request context. Missing, malformed, expired or
// orphaned tokens all yield 401; the gate fails closed.
func (r *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authz := req.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		token := strings.TrimPrefix(authz, "Bearer ")

		user, err := r.users.ResolveToken(req.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				writeError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx := context.WithValue(req.Context(), userContextKey, user)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func currentUser(ctx context.Context) *models.User {
	if u, ok := ctx.Value(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}
