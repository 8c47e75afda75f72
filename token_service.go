package accounts

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService issues and validates HS256 session tokens. Tokens are not
// persisted; validity is determined purely by signature and expiry.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
}

// NewTokenService creates a TokenService. It fails when the signing key is
// empty or the lifetime is not positive so a misconfigured deployment stops
// at startup instead of minting unverifiable tokens.
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, goerrors.New("token signing key is required", goerrors.CategoryInternal).
			WithTextCode(TextCodeSigningFault)
	}

	if ttl <= 0 {
		return nil, goerrors.New("token lifetime must be positive", goerrors.CategoryInternal).
			WithTextCode(TextCodeSigningFault)
	}

	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		logger:     defLogger{},
	}, nil
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// Issue signs a session token for account with subject = account.ID and an
// expiration of now + the configured lifetime.
func (ts *TokenService) Issue(account *Account) (string, error) {
	if account == nil {
		return "", goerrors.New("account is required", goerrors.CategoryBadInput)
	}

	now := time.Now()
	claims := &AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		UID:  account.ID.String(),
		Name: account.DisplayName(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token").
			WithTextCode(TextCodeSigningFault)
	}

	return signed, nil
}

// Validate parses raw and returns its claims when the signature, issuer, and
// expiry all check out.
func (ts *TokenService) Validate(raw string) (*AccountClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &AccountClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*AccountClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

var _ TokenIssuer = (*TokenService)(nil)
