package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccountClaims is the signed identity claim carried by session tokens.
// Subject is always the account id; Name is optional display metadata.
type AccountClaims struct {
	jwt.RegisteredClaims
	UID  string `json:"uid,omitempty"`
	Name string `json:"name,omitempty"`
}

// AccountID returns the identity the token was issued for.
func (c *AccountClaims) AccountID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration instant, zero when absent.
func (c *AccountClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issuance instant, zero when absent.
func (c *AccountClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
