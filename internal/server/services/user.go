// Package services contains server-side business logic: registration, login
// and token resolution in UserService, encrypted entry CRUD in SecretService,
// and icon upload presigning in IconService.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pashield/pashield/internal/common"
	"github.com/pashield/pashield/internal/cryptox"
	"github.com/pashield/pashield/internal/dbx"
	"github.com/pashield/pashield/internal/logging"
	"github.com/pashield/pashield/internal/server/auth"
	"github.com/pashield/pashield/internal/server/config"
	"github.com/pashield/pashield/internal/server/models"
	"github.com/pashield/pashield/internal/server/repositories/repomanager"
)

// UserService provides identity operations:
// - Register: create users with hashed passwords
// - Login: verify credentials and mint a bearer token
// - ResolveToken: map an inbound token back to an existing user
// - DeleteAccount: remove a user together with all owned entries
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	logger      logging.Logger
	bcryptCost  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		logger:      logger.With("module", "users"),
		bcryptCost:  cfg.BcryptCost,
	}
}

// Register creates a new user. The plaintext password is hashed before it
// ever reaches the repository. A duplicate email yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, name, surname string) (*models.User, error) {
	hash, err := cryptox.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, Name: name, Surname: surname}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate verifies the email/password pair. An unknown email and a
// wrong password both collapse to common.ErrorUnauthorized so the response
// never reveals whether the account exists.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// Login authenticates and mints a bearer token with the user's email as
// subject. The last-login timestamp update is best effort: its failure is
// logged and never denies the login.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Issue(user.Email)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	now := time.Now()
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn(ctx, "last login update failed", "user_id", user.ID, "error", err.Error())
	} else {
		user.LastLoginDate = &now
	}

	return token, user, nil
}

// ResolveToken verifies the bearer token and resolves its subject to a
// currently existing user. Every failure kind, including a valid signature
// whose subject has since been deleted, yields common.ErrorUnauthorized.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.issuer.Verify(token)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "reason", err.Error())
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// DeleteAccount removes the user and all owned entries in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Secrets(tx).DeleteAll(ctx, userID); err != nil {
			return fmt.Errorf("error deleting entries: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}
