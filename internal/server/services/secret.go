package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pashield/pashield/internal/cryptox"
	"github.com/pashield/pashield/internal/server/models"
	"github.com/pashield/pashield/internal/server/repositories/repomanager"
)

// SecretService owns the lifecycle of encrypted password entries. Plaintext
// payloads pass through the cipher on the way in (Create, Update) and out
// (Get, List); the repository only ever sees ciphertext.
type SecretService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.Cipher
}

// NewSecretService constructs a SecretService over the given cipher.
func NewSecretService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *SecretService {
	return &SecretService{db: db, repomanager: m, cipher: cipher}
}

// Create encrypts the payload and stores a new entry for the owner. The
// returned record carries the stored ciphertext, not the plaintext.
func (s *SecretService) Create(ctx context.Context, ownerID, location, username, payload, iconName string) (*models.Secret, error) {
	ciphertext, err := s.cipher.Encrypt(payload)
	if err != nil {
		return nil, fmt.Errorf("error encrypting payload: %w", err)
	}

	secret := &models.Secret{
		UserID:   ownerID,
		Location: location,
		Username: username,
		Payload:  ciphertext,
		IconName: iconName,
	}

	repo := s.repomanager.Secrets(s.db)
	created, err := repo.Create(ctx, secret)
	if err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}
	return created, nil
}

// Get returns the entry with its payload decrypted. Lookups are always
// scoped by owner, so an entry belonging to someone else is simply absent.
func (s *SecretService) Get(ctx context.Context, id, ownerID string) (*models.Secret, error) {
	repo := s.repomanager.Secrets(s.db)
	secret, err := repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(secret.Payload)
	if err != nil {
		return nil, err
	}
	secret.Payload = plaintext
	return secret, nil
}

// List returns the owner's entries with payloads decrypted.
func (s *SecretService) List(ctx context.Context, ownerID string, offset, limit int) ([]*models.Secret, error) {
	repo := s.repomanager.Secrets(s.db)
	items, err := repo.List(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		plaintext, err := s.cipher.Decrypt(item.Payload)
		if err != nil {
			return nil, err
		}
		item.Payload = plaintext
	}
	return items, nil
}

// Update re-encrypts the payload and replaces label, username, payload and
// icon atomically. The returned record carries the stored ciphertext.
func (s *SecretService) Update(ctx context.Context, id, ownerID, location, username, payload, iconName string) (*models.Secret, error) {
	ciphertext, err := s.cipher.Encrypt(payload)
	if err != nil {
		return nil, fmt.Errorf("error encrypting payload: %w", err)
	}

	secret := &models.Secret{
		ID:       id,
		UserID:   ownerID,
		Location: location,
		Username: username,
		Payload:  ciphertext,
		IconName: iconName,
	}

	repo := s.repomanager.Secrets(s.db)
	return repo.Update(ctx, secret)
}

// Delete removes the owner's entry and returns the deleted record.
func (s *SecretService) Delete(ctx context.Context, id, ownerID string) (*models.Secret, error) {
	repo := s.repomanager.Secrets(s.db)
	return repo.Delete(ctx, id, ownerID)
}

// DeleteAll removes every entry owned by the user and returns the count.
func (s *SecretService) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	repo := s.repomanager.Secrets(s.db)
	return repo.DeleteAll(ctx, ownerID)
}
