package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// defaultTokenTTL applies when a TokenService is constructed with a
// non-positive TTL.
const defaultTokenTTL = 4 * time.Hour

// Claims is the fixed claim shape carried by every token: subject (account
// ID), role, issued-at, expiry, and a unique token ID. Verify rejects any
// token whose claims don't match this shape.
type Claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// TokenService issues and verifies signed, time-bounded tokens.
//
// The signing secret and TTL are injected at construction — process-wide
// configuration, never ambient globals and never embedded in tokens.
// Issuance and verification are pure computations over the claims and
// secret; the service is safe for concurrent use without locking.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given signing secret and
// token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue creates a signed HS256 token for an account. The claims reflect the
// account's role at issuance; role changes only take effect on re-login.
func (ts *TokenService) Issue(account *Account) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
			ID:        uuid.NewString(),
		},
		Role: account.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify validates a token's signature and expiry and returns its claims.
//
// It is fully stateless — the credential store is never consulted. Failures
// are ErrTokenExpired once the expiry has passed, and ErrTokenInvalid for
// everything else: bad signature, wrong algorithm, structural damage, or a
// claim set that doesn't match the expected shape.
func (ts *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return ts.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	// Shape validation: reject before trusting any field.
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if !IsValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: missing or unknown role", ErrTokenInvalid)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrTokenInvalid)
	}

	return claims, nil
}
