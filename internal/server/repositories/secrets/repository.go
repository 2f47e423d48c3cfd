// Package secrets provides persistence for encrypted password entries.
// Every query is scoped by the owning user's id in the same predicate as the
// entry id, so a caller can never reach another owner's entry.
package secrets

import (
	"context"

	"github.com/pashield/pashield/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, secret *models.Secret) (*models.Secret, error)
	Get(ctx context.Context, id, ownerID string) (*models.Secret, error)
	List(ctx context.Context, ownerID string, offset, limit int) ([]*models.Secret, error)
	Update(ctx context.Context, secret *models.Secret) (*models.Secret, error)
	Delete(ctx context.Context, id, ownerID string) (*models.Secret, error)
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
}
