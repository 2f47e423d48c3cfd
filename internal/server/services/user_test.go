package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/pashield/pashield/internal/common"
	"github.com/pashield/pashield/internal/cryptox"
	"github.com/pashield/pashield/internal/dbx"
	"github.com/pashield/pashield/internal/logging"
	"github.com/pashield/pashield/internal/server/auth"
	"github.com/pashield/pashield/internal/server/config"
	"github.com/pashield/pashield/internal/server/models"
	secretsrepo "github.com/pashield/pashield/internal/server/repositories/secrets"
	usersrepo "github.com/pashield/pashield/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestIssuer(t *testing.T, validity time.Duration) *auth.Issuer {
	t.Helper()
	issuer, err := auth.NewIssuer("test-secret", "HS256", validity)
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}
	return issuer
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{BcryptCost: 4}
	return NewUserService(db, rm, newTestIssuer(t, time.Hour), discardLogger(), cfg)
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	lastLoginErr error
	lastLoginID  string

	deleteErr error
	deletedID string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *u
	out.ID = "u-1"
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	f.lastLoginID = id
	return f.lastLoginErr
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

type fakeSecretsRepo struct {
	createOut *models.Secret
	createErr error

	getOut *models.Secret
	getErr error

	listOut []*models.Secret
	listErr error

	updateOut *models.Secret
	updateErr error

	deleteOut *models.Secret
	deleteErr error

	deleteAllN   int64
	deleteAllErr error

	lastCreated *models.Secret
	lastUpdated *models.Secret
}

func (f *fakeSecretsRepo) Create(ctx context.Context, s *models.Secret) (*models.Secret, error) {
	f.lastCreated = s
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *s
	out.ID = "s-1"
	return &out, nil
}

func (f *fakeSecretsRepo) Get(ctx context.Context, id, ownerID string) (*models.Secret, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeSecretsRepo) List(ctx context.Context, ownerID string, offset, limit int) ([]*models.Secret, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeSecretsRepo) Update(ctx context.Context, s *models.Secret) (*models.Secret, error) {
	f.lastUpdated = s
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	out := *s
	return &out, nil
}

func (f *fakeSecretsRepo) Delete(ctx context.Context, id, ownerID string) (*models.Secret, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.deleteOut, nil
}

func (f *fakeSecretsRepo) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	if f.deleteAllErr != nil {
		return 0, f.deleteAllErr
	}
	return f.deleteAllN, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSecretsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Secrets(db dbx.DBTX) secretsrepo.Repository  { return m.s }

// --- tests ---

func TestRegister_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := newUserService(t, db, rm)

	u, err := s.Register(context.Background(), "alice@example.com", "s3cr3t", "Alice", "Liddell")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.ID == "" || u.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "s3cr3t" || !cryptox.CheckPassword("s3cr3t", u.PasswordHash) {
		t.Fatalf("password not hashed properly: %q", u.PasswordHash)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}}
	s := newUserService(t, db, rm)

	_, err := s.Register(context.Background(), "alice@example.com", "pw", "", "")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestAuthenticate_Collapse(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := cryptox.HashPassword("right-password", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	tests := []struct {
		name string
		repo *fakeUsersRepo
		pw   string
		want error
	}{
		{
			name: "unknown email",
			repo: &fakeUsersRepo{getErr: common.ErrorNotFound},
			pw:   "anything",
			want: common.ErrorUnauthorized,
		},
		{
			name: "wrong password",
			repo: &fakeUsersRepo{getOut: &models.User{ID: "u-1", Email: "a@b.c", PasswordHash: hash}},
			pw:   "wrong-password",
			want: common.ErrorUnauthorized,
		},
		{
			name: "db failure",
			repo: &fakeUsersRepo{getErr: errors.New("db down")},
			pw:   "anything",
			want: common.ErrorInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newUserService(t, db, &fakeRepoManager{u: tt.repo})
			_, err := s.Authenticate(context.Background(), "a@b.c", tt.pw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, _ := cryptox.HashPassword("s3cr3t", 4)
	repo := &fakeUsersRepo{getOut: &models.User{ID: "u-1", Email: "alice@example.com", PasswordHash: hash}}
	s := newUserService(t, db, &fakeRepoManager{u: repo})

	token, user, err := s.Login(context.Background(), "alice@example.com", "s3cr3t")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if repo.lastLoginID != "u-1" {
		t.Fatalf("last login not recorded for user, got %q", repo.lastLoginID)
	}
	if user.LastLoginDate == nil {
		t.Fatalf("expected last login date set on returned user")
	}

	subject, err := s.issuer.Verify(token)
	if err != nil || subject != "alice@example.com" {
		t.Fatalf("token does not resolve to email: %q, %v", subject, err)
	}
}

func TestLogin_LastLoginFailureDoesNotDenyLogin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, _ := cryptox.HashPassword("s3cr3t", 4)
	repo := &fakeUsersRepo{
		getOut:       &models.User{ID: "u-1", Email: "alice@example.com", PasswordHash: hash},
		lastLoginErr: errors.New("db down"),
	}
	s := newUserService(t, db, &fakeRepoManager{u: repo})

	token, user, err := s.Login(context.Background(), "alice@example.com", "s3cr3t")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if user.LastLoginDate != nil {
		t.Fatalf("last login date should stay unset when update fails")
	}
}

func TestResolveToken_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{getOut: &models.User{ID: "u-1", Email: "alice@example.com"}}
	s := newUserService(t, db, &fakeRepoManager{u: repo})

	token, err := s.issuer.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	u, err := s.ResolveToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveToken error: %v", err)
	}
	if u.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestResolveToken_Expired(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{getOut: &models.User{ID: "u-1", Email: "alice@example.com"}}
	cfg := &config.Config{BcryptCost: 4}
	s := NewUserService(db, &fakeRepoManager{u: repo}, newTestIssuer(t, -time.Minute), discardLogger(), cfg)

	token, err := s.issuer.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = s.ResolveToken(context.Background(), token)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
}

func TestResolveToken_DeletedSubject(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{getErr: common.ErrorNotFound}
	s := newUserService(t, db, &fakeRepoManager{u: repo})

	token, err := s.issuer.Issue("ghost@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = s.ResolveToken(context.Background(), token)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
}

func TestResolveToken_Garbage(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{}})

	_, err := s.ResolveToken(context.Background(), "not-a-token")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
}

func TestDeleteAccount_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	u := &fakeUsersRepo{}
	sec := &fakeSecretsRepo{deleteAllN: 3}
	s := newUserService(t, db, &fakeRepoManager{u: u, s: sec})

	if err := s.DeleteAccount(context.Background(), "u-1"); err != nil {
		t.Fatalf("DeleteAccount error: %v", err)
	}
	if u.deletedID != "u-1" {
		t.Fatalf("user not deleted, got %q", u.deletedID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestDeleteAccount_UserMissing(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	u := &fakeUsersRepo{deleteErr: common.ErrorNotFound}
	s := newUserService(t, db, &fakeRepoManager{u: u, s: &fakeSecretsRepo{}})

	err := s.DeleteAccount(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}
