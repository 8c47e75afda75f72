package accounts

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// CredentialVerifier is the security-critical lookup-and-compare path. Both
// failure branches return the identical ErrInvalidCredentials, and the
// unknown-username branch still burns a bcrypt comparison so the two paths
// keep a comparable timing profile.
type CredentialVerifier struct {
	store        AccountStore
	hasher       PasswordHasher
	fallbackHash string
	logger       Logger
}

// NewCredentialVerifier builds a verifier over the given store and hasher.
func NewCredentialVerifier(store AccountStore, hasher PasswordHasher) *CredentialVerifier {
	v := &CredentialVerifier{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
	}

	fallback, err := hasher.Hash(uuid.NewString())
	if err != nil {
		v.logger.Error("fallback hash generation failed, miss timing equalization disabled: %v", err)
	}
	v.fallbackHash = fallback

	return v
}

func (v *CredentialVerifier) WithLogger(logger Logger) *CredentialVerifier {
	if logger != nil {
		v.logger = logger
	}
	return v
}

// Verify resolves creds.Username to a stored record and compares the
// submitted password against its hash.
func (v *CredentialVerifier) Verify(ctx context.Context, creds Credentials) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "context cancelled during credential verification")
	}

	account, err := v.store.FindOne(ctx, Criteria{
		Where: map[string]any{"username": creds.Username},
	})
	if err != nil {
		if goerrors.IsNotFound(err) {
			v.burnComparison(creds.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during verification")
	}

	if err := v.hasher.Compare(creds.Password, account.PasswordHash); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		v.logger.Error("credential comparison fault: %v", err)
		return nil, err
	}

	return account, nil
}

// burnComparison runs a throwaway hash comparison so a miss costs roughly the
// same as a mismatch.
func (v *CredentialVerifier) burnComparison(password string) {
	if v.fallbackHash == "" {
		return
	}
	_ = v.hasher.Compare(password, v.fallbackHash)
}

var _ Verifier = (*CredentialVerifier)(nil)
