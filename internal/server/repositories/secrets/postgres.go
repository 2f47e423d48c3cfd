package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pashield/pashield/internal/common"
	"github.com/pashield/pashield/internal/dbx"
	"github.com/pashield/pashield/internal/server/models"
)

// PostgresRepository implements secret storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, secret *models.Secret) (*models.Secret, error) {

	query :=
		`INSERT INTO passwords (id, user_id, location, username, password, icon_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	secret.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, query,
		secret.ID, secret.UserID, secret.Location, secret.Username, secret.Payload, secret.IconName)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return secret, nil
}

// Get fetches an entry by id and owner in a single predicate, never by id
// alone.
func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Secret, error) {
	query :=
		`SELECT id, user_id, location, username, password, icon_name FROM passwords
		 WHERE id = $1 AND user_id = $2
		 `

	return r.scanSecret(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, offset, limit int) ([]*models.Secret, error) {
	query :=
		`SELECT id, user_id, location, username, password, icon_name FROM passwords
		 WHERE user_id = $1
		 ORDER BY id
		 OFFSET $2 LIMIT $3
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		item := &models.Secret{}
		var icon sql.NullString
		if err := rows.Scan(&item.ID, &item.UserID, &item.Location, &item.Username, &item.Payload, &icon); err != nil {
			return nil, err
		}
		item.IconName = icon.String
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces label, username, payload and icon atomically in one
// statement. An entry that is absent or owned by someone else yields
// common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, secret *models.Secret) (*models.Secret, error) {
	query :=
		`UPDATE passwords SET location = $3, username = $4, password = $5, icon_name = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, location, username, password, icon_name
		 `

	return r.scanSecret(r.db.QueryRowContext(ctx, query,
		secret.ID, secret.UserID, secret.Location, secret.Username, secret.Payload, secret.IconName))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) (*models.Secret, error) {
	query :=
		`DELETE FROM passwords
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, location, username, password, icon_name
		 `

	return r.scanSecret(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	query :=
		`DELETE FROM passwords
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanSecret(row *sql.Row) (*models.Secret, error) {
	secret := &models.Secret{}
	var icon sql.NullString

	err := row.Scan(&secret.ID, &secret.UserID, &secret.Location, &secret.Username, &secret.Payload, &icon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	secret.IconName = icon.String
	return secret, nil
}
