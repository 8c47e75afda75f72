package accounts

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// PasswordHasher performs one-way hashing and verification of passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) error
}

// TokenIssuer converts a verified account into a signed session token.
type TokenIssuer interface {
	Issue(account *Account) (string, error)
}

// Verifier resolves credentials to a stored account record.
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) (*Account, error)
}

// Criteria is an opaque query descriptor passed through to the store layer.
// The core never interprets it.
type Criteria struct {
	Where  map[string]any `json:"where,omitempty"`
	Order  string         `json:"order,omitempty"`
	Limit  int            `json:"limit,omitempty"`
	Offset int            `json:"offset,omitempty"`
}

// AccountStore is the persistence collaborator. Implementations assign IDs on
// create and own uniqueness and linearizability guarantees per record.
type AccountStore interface {
	Create(ctx context.Context, record *Account) (*Account, error)
	FindOne(ctx context.Context, criteria Criteria) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Find(ctx context.Context, criteria Criteria) ([]*Account, error)
	Count(ctx context.Context, criteria Criteria) (int, error)
	UpdateByID(ctx context.Context, id string, changes map[string]any) (*Account, error)
	ReplaceByID(ctx context.Context, id string, record *Account) (*Account, error)
	DeleteByID(ctx context.Context, id string) error
	UpdateAll(ctx context.Context, criteria Criteria, changes map[string]any) (int, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
