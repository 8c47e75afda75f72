package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the stored record. PasswordHash never serializes to JSON; any
// record handed to a caller goes through Sanitized first so the hash does not
// leak even through reflective encoders.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc" json:"-"`

	ID           uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username     string         `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash string         `bun:"password_hash" json:"-"`
	Metadata     map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt    *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt    *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AddMetadata appends an attribute to the open-model metadata bag.
func (a *Account) AddMetadata(key string, val any) *Account {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
	a.Metadata[key] = val
	return a
}

// Sanitized returns a copy with all password material stripped.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PasswordHash = ""
	return &clone
}

// DisplayName derives the optional name claim. Only username is guaranteed to
// exist on the record, so nothing else feeds the claim.
func (a *Account) DisplayName() string {
	return a.Username
}

// Credentials are submitted on login and discarded after verification.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewAccount is the create-request payload. Password holds plaintext only for
// the duration of the request.
type NewAccount struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
