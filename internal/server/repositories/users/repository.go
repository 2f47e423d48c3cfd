// Package users provides persistence for user identity records.
package users

import (
	"context"
	"time"

	"github.com/pashield/pashield/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	Delete(ctx context.Context, id string) error
}
