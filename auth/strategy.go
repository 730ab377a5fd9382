package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Leileisme/Shop-back/models"
)

// Routes that accept an expired (but otherwise valid and still registered)
// token. A client must be able to renew or explicitly log out with a stale
// token; no other route may be reached with one.
const (
	ExtendPath = "/users/extend"
	LogoutPath = "/users/logout"
)

// ErrUserNotFound is returned by a CredentialStore when no user matches.
var ErrUserNotFound = errors.New("user not found")

// CredentialStore is what the strategies need from user persistence.
type CredentialStore interface {
	// FindByAccount resolves a login account.
	FindByAccount(ctx context.Context, account string) (*models.User, error)
	// FindByIDAndToken resolves a user only if token is still in its
	// active set. This is the authoritative revocation check.
	FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error)
}

// Reason says why a request was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingCredentials
	ReasonAccountNotFound
	ReasonWrongPassword
	ReasonTokenMalformed
	ReasonTokenExpired
	ReasonTokenRevoked
	ReasonUnknown
)

// Outcome is the normalized result of a verification flow. Nothing beyond
// a reason code crosses this boundary on failure.
type Outcome struct {
	Authenticated bool
	User          *models.User
	// Token is the raw token string on bearer success, forwarded so that
	// extend and logout can act on that exact entry.
	Token  string
	Reason Reason
}

func rejected(reason Reason) Outcome {
	return Outcome{Reason: reason}
}

// Strategies is the closed set of verification flows: primary-credential
// login and bearer-token verification.
type Strategies struct {
	store  CredentialStore
	issuer *Issuer
}

func NewStrategies(store CredentialStore, issuer *Issuer) *Strategies {
	return &Strategies{store: store, issuer: issuer}
}

// Login verifies an account and password pair. On success the caller is
// responsible for issuing and registering a session token.
func (s *Strategies) Login(ctx context.Context, account, password string) Outcome {
	if account == "" || password == "" {
		return rejected(ReasonMissingCredentials)
	}

	user, err := s.store.FindByAccount(ctx, account)
	if errors.Is(err, ErrUserNotFound) {
		return rejected(ReasonAccountNotFound)
	}
	if err != nil {
		log.Println("login lookup failed:", err)
		return rejected(ReasonUnknown)
	}

	if !CheckPassword(user.Password, password) {
		return rejected(ReasonWrongPassword)
	}

	return Outcome{Authenticated: true, User: user}
}

// Bearer verifies the token from an Authorization header against the route
// being requested. Expired tokens pass only for the extend and logout
// routes; every token must still be present in the user's active set.
func (s *Strategies) Bearer(ctx context.Context, authorization, path string) Outcome {
	token, ok := extractBearer(authorization)
	if !ok {
		return rejected(ReasonTokenMalformed)
	}

	claims, err := s.issuer.Decode(token)
	if err != nil {
		return rejected(ReasonTokenMalformed)
	}

	if claims.Expired(time.Now()) && path != ExtendPath && path != LogoutPath {
		return rejected(ReasonTokenExpired)
	}

	user, err := s.store.FindByIDAndToken(ctx, claims.Subject, token)
	if errors.Is(err, ErrUserNotFound) {
		return rejected(ReasonTokenRevoked)
	}
	if err != nil {
		log.Println("token lookup failed:", err)
		return rejected(ReasonUnknown)
	}

	return Outcome{Authenticated: true, User: user, Token: token}
}

func extractBearer(authorization string) (string, bool) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authorization, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}
