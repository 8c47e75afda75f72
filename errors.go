package accounts

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside structured errors.
const (
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeProtectedField   = "PROTECTED_FIELD"
	TextCodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	TextCodeDuplicateAccount = "DUPLICATE_ACCOUNT"
	TextCodeHashingFault     = "HASHING_FAULT"
	TextCodeSigningFault     = "SIGNING_FAULT"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
)

// ErrInvalidCredentials is returned for both unknown usernames and password
// mismatches. The two paths must stay indistinguishable to the caller.
var ErrInvalidCredentials = goerrors.New("invalid username or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrPasswordMismatch is the hasher-level mismatch result. The verifier maps
// it to ErrInvalidCredentials before it reaches any caller.
var ErrPasswordMismatch = goerrors.New("password does not match hash", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyPassword rejects account creation without a password.
var ErrNoEmptyPassword = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrProtectedField rejects generic mutations that touch password material,
// which would bypass hashing.
var ErrProtectedField = goerrors.New("password fields cannot be updated through this operation", goerrors.CategoryValidation).
	WithTextCode(TextCodeProtectedField).
	WithCode(goerrors.CodeBadRequest)

// ErrAccountNotFound is the store-level miss for id lookups.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrDuplicateAccount maps unique-constraint violations on username.
var ErrDuplicateAccount = goerrors.New("an account with that username already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateAccount).
	WithCode(goerrors.CodeConflict)

// ErrTokenExpired is returned when validating a token past its expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail parsing or signature
// verification.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// MapErrorToStatus resolves an error to the HTTP status and client-safe
// message the controller should respond with. Internal detail is withheld
// for 5xx responses.
func MapErrorToStatus(err error) (int, string) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return http.StatusInternalServerError, "an unexpected error occurred"
	}

	status := richErr.Code
	if status == 0 {
		switch richErr.Category {
		case goerrors.CategoryValidation, goerrors.CategoryBadInput:
			status = http.StatusBadRequest
		case goerrors.CategoryAuth:
			status = http.StatusUnauthorized
		case goerrors.CategoryNotFound:
			status = http.StatusNotFound
		case goerrors.CategoryConflict:
			status = http.StatusConflict
		default:
			status = http.StatusInternalServerError
		}
	}

	if status >= http.StatusInternalServerError {
		return status, "an unexpected error occurred"
	}

	return status, richErr.Message
}
