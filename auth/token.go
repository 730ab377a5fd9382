package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenMalformed means the token failed to decode: bad format, bad
// signature, wrong algorithm. Expiry is a separate concern, judged by the
// caller from the decoded claims.
var ErrTokenMalformed = errors.New("token malformed")

// Claims are the session token claims: subject user id, issued-at,
// expires-at.
type Claims struct {
	jwt.RegisteredClaims
}

// Expired reports whether the expiry claim has passed at now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !c.ExpiresAt.After(now)
}

// Issuer mints and decodes session tokens. The signing secret and lifetime
// are fixed at construction, nothing here touches the environment.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for userID expiring after the configured lifetime.
// The jti claim makes every issued token a distinct string: timestamps have
// one-second granularity, and two logins in the same second must still be
// independently revocable entries in the user's token set.
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	return token.SignedString(i.secret)
}

// Decode parses and signature-checks a token without validating its claims.
// An expired token with a good signature decodes fine here: the extend and
// logout routes must still accept it, so expiry is left to the caller.
func (i *Issuer) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
