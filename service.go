package accounts

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// AccountService composes the store, hasher, verifier, and token issuer into
// the two user-facing flows plus the generic record operations. It holds no
// state of its own; every request is an independent linear flow.
type AccountService struct {
	store    AccountStore
	hasher   PasswordHasher
	verifier Verifier
	issuer   TokenIssuer
	logger   Logger
}

// NewAccountService wires the collaborators explicitly. The verifier defaults
// to a CredentialVerifier over the same store and hasher.
func NewAccountService(store AccountStore, hasher PasswordHasher, issuer TokenIssuer) *AccountService {
	return &AccountService{
		store:    store,
		hasher:   hasher,
		verifier: NewCredentialVerifier(store, hasher),
		issuer:   issuer,
		logger:   defLogger{},
	}
}

func (s *AccountService) WithLogger(logger Logger) *AccountService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithVerifier overrides the credential verifier.
func (s *AccountService) WithVerifier(verifier Verifier) *AccountService {
	if verifier != nil {
		s.verifier = verifier
	}
	return s
}

// CreateAccount hashes the submitted password, stores the record, and returns
// it with the hash stripped. Validation runs before any hash or store call.
func (s *AccountService) CreateAccount(ctx context.Context, input NewAccount) (*Account, error) {
	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrNoEmptyPassword
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	record := &Account{
		Username:     input.Username,
		PasswordHash: hash,
		Metadata:     input.Metadata,
	}

	created, err := s.store.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	return created.Sanitized(), nil
}

// Login verifies credentials and issues a session token. No password material
// appears in the returned value.
func (s *AccountService) Login(ctx context.Context, creds Credentials) (string, error) {
	account, err := s.verifier.Verify(ctx, creds)
	if err != nil {
		s.logger.Error("login verification failed for %s: %v", creds.Username, err)
		return "", err
	}

	token, err := s.issuer.Issue(account)
	if err != nil {
		s.logger.Error("login token issuance failed for %s: %v", account.ID, err)
		return "", err
	}

	return token, nil
}

// Find returns matching records with hashes stripped.
func (s *AccountService) Find(ctx context.Context, criteria Criteria) ([]*Account, error) {
	records, err := s.store.Find(ctx, criteria)
	if err != nil {
		return nil, err
	}

	sanitized := make([]*Account, len(records))
	for i, record := range records {
		sanitized[i] = record.Sanitized()
	}
	return sanitized, nil
}

// FindByID returns a single record with the hash stripped.
func (s *AccountService) FindByID(ctx context.Context, id string) (*Account, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.Sanitized(), nil
}

// Count passes the predicate through to the store.
func (s *AccountService) Count(ctx context.Context, criteria Criteria) (int, error) {
	return s.store.Count(ctx, criteria)
}

// UpdateByID applies a partial update. Password fields are rejected here
// because they would bypass hashing; password changes go through a dedicated
// flow that hashes first.
func (s *AccountService) UpdateByID(ctx context.Context, id string, changes map[string]any) (*Account, error) {
	if err := rejectPasswordChanges(changes); err != nil {
		return nil, err
	}

	record, err := s.store.UpdateByID(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	return record.Sanitized(), nil
}

// ReplaceByID swaps the full record, preserving the stored hash so a replace
// cannot clear or overwrite password material.
func (s *AccountService) ReplaceByID(ctx context.Context, id string, record *Account) (*Account, error) {
	if record == nil {
		return nil, goerrors.New("record is required", goerrors.CategoryBadInput)
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.PasswordHash = existing.PasswordHash

	replaced, err := s.store.ReplaceByID(ctx, id, record)
	if err != nil {
		return nil, err
	}
	return replaced.Sanitized(), nil
}

// DeleteByID removes the record.
func (s *AccountService) DeleteByID(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

// UpdateAll applies changes to every record matching criteria and reports the
// affected count. Password fields are rejected, same as UpdateByID.
func (s *AccountService) UpdateAll(ctx context.Context, criteria Criteria, changes map[string]any) (int, error) {
	if err := rejectPasswordChanges(changes); err != nil {
		return 0, err
	}
	return s.store.UpdateAll(ctx, criteria, changes)
}

// ChangePassword hashes the new password before delegating to the store; it
// is the only mutation path allowed to touch the hash column.
func (s *AccountService) ChangePassword(ctx context.Context, id, password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrNoEmptyPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	_, err = s.store.UpdateByID(ctx, id, map[string]any{"password_hash": hash})
	return err
}

func rejectPasswordChanges(changes map[string]any) error {
	for key := range changes {
		switch strings.ToLower(key) {
		case "password", "password_hash", "passwordhash":
			return ErrProtectedField
		}
	}
	return nil
}
