package repomanager

import (
	"context"
	"database/sql"

	"github.com/pashield/pashield/internal/dbx"
	"github.com/pashield/pashield/internal/server/repositories/secrets"
	"github.com/pashield/pashield/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Secrets(db dbx.DBTX) secrets.Repository
}
