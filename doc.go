// Package accounts implements a minimal account-authentication backend:
// credential storage, bcrypt password verification, and JWT session token
// issuance, plus generic CRUD access to account records.
//
// Collaborators are wired through constructors rather than a container:
//   - AccountStore persists records; the bun-backed implementation lives in
//     the repository subpackage.
//   - BcryptHasher performs one-way hashing with a configurable cost.
//   - TokenService signs and validates HS256 session tokens.
//   - CredentialVerifier resolves a username to a stored record and compares
//     passwords; both failure branches surface the same ErrInvalidCredentials
//     so callers cannot enumerate usernames.
//   - AccountService composes the above into the account-creation and login
//     flows and keeps password material out of every response.
package accounts
