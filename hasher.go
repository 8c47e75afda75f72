package accounts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with a configurable work factor. The salt and
// cost are embedded in the produced hash, so Compare needs no configuration.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. A zero cost falls
// back to bcrypt.DefaultCost; out-of-range values are clamped to the bcrypt
// limits rather than deferred to a runtime failure.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost exposes the effective work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash generates a salted hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password").
			WithTextCode(TextCodeHashingFault)
	}

	return string(hashed), nil
}

// Compare validates that password matches hash. A clean mismatch returns
// ErrPasswordMismatch; a malformed stored hash is an internal fault.
func (h *BcryptHasher) Compare(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "stored password hash is malformed").
			WithTextCode(TextCodeHashingFault)
	}
	return nil
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// RandomPasswordHash produces a hash of a throwaway password, useful for
// seeding records that must not be logged into yet.
func RandomPasswordHash() string {
	h := NewBcryptHasher(0)

	hash, err := h.Hash(uuid.NewString())
	if err != nil {
		return RandomPasswordHash()
	}

	return hash
}
