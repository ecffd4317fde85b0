// Package auth provides authentication and authorisation for AuthFlow.
//
// It implements a two-tier role model (user → admin) with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Stateless HS256 JWT tokens with a fixed, validated claim shape
//   - A SQLite-backed credential store with case-normalized identities
//   - An account service orchestrating registration and login
//   - Request-scoped identity propagation via context
//
// Tokens carry the account ID and role and are verified by signature and
// expiry alone — no store lookup. An account deleted after issuance keeps a
// working token until expiry; that trade-off is deliberate. Login failures
// are deliberately indistinguishable: unknown identity and wrong password
// both surface ErrInvalidCredentials, and a dummy hash runs on unknown
// identities so timing does not betray which case occurred.
package auth
