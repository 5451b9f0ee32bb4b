package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the bearer token lifetime spec.md §4.4 defaults to.
const DefaultTokenTTL = 30 * time.Minute

// Claims is the JWT payload a bearer token carries: the actor's node id and
// an expiry, nothing else (spec.md §4.4 — no roles or scopes embedded; those
// are resolved fresh from the store on every request).
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 bearer tokens signed with a single
// shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds a TokenIssuer. ttl <= 0 falls back to
// DefaultTokenTTL.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue mints a signed token for userID, expiring ttl from now.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates a bearer token, returning the carried user id.
// Any parse error, bad signature, or expiry collapses to a single opaque
// error — spec.md §9 Open Question (b): a missing or invalid token always
// resolves to "no actor", never a debug-mode fallback identity.
func (i *TokenIssuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// ErrInvalidToken is returned for every bearer-token failure mode: missing,
// malformed, expired, or wrong signature. Callers resolve this to "no actor"
// rather than reporting which of those applied.
var ErrInvalidToken = fmt.Errorf("auth: invalid or expired token")
