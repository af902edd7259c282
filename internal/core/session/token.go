// Package session issues and verifies the signed, time-bounded tokens that
// carry an actor's identity and role between commands.
//
// Tokens are HS256 JWTs. Verification never touches storage: the role in the
// token is trusted until the token expires.
package session

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/epicevents/crm/internal/core/domain"
)

// DefaultTTL is the validity window used when none is configured.
const DefaultTTL = 24 * time.Hour

const issuer = "epicevents-crm"

var errEmptySecret = errors.New("session: signing secret must not be empty")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Issuer{secret: key, ttl: ttl}, nil
}

// TTL returns the validity window of issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue creates a token for actorID valid from now for the configured window.
// Timestamps have one-second granularity, so now is truncated.
func (i *Issuer) Issue(actorID string, role domain.Role, now time.Time) (*domain.Session, error) {
	issuedAt := now.UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.ttl)

	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   actorID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		Token:     token,
		ActorID:   actorID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the token's signature and expiry against now and returns the
// identity it carries. Failures are *domain.TokenError values matching
// domain.ErrTokenMalformed, domain.ErrTokenTampered or domain.ErrTokenExpired.
// The tag is checked over the raw bytes before anything is decoded, so any
// alteration of an issued token, expired or not, is reported as tampered.
func (i *Issuer) Verify(token string, now time.Time) (domain.Principal, error) {
	if err := i.checkTag(token); err != nil {
		return domain.Principal{}, err
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, i.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return domain.Principal{}, classify(err)
	}

	role := domain.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return domain.Principal{}, &domain.TokenError{Kind: domain.ErrTokenMalformed}
	}
	return domain.Principal{ActorID: c.Subject, Role: role}, nil
}

// checkTag verifies the HS256 tag after the last '.' against the raw bytes
// before it. Input without a separator has no tag and is malformed.
func (i *Issuer) checkTag(token string) error {
	cut := strings.LastIndexByte(token, '.')
	if cut < 0 {
		return &domain.TokenError{Kind: domain.ErrTokenMalformed, Cause: jwt.ErrTokenMalformed}
	}
	// Strict decoding rejects altered padding bits in the last character.
	sig, err := base64.RawURLEncoding.Strict().DecodeString(token[cut+1:])
	if err != nil {
		return &domain.TokenError{Kind: domain.ErrTokenTampered, Cause: err}
	}
	if err := jwt.SigningMethodHS256.Verify(token[:cut], sig, i.secret); err != nil {
		return &domain.TokenError{Kind: domain.ErrTokenTampered, Cause: err}
	}
	return nil
}

func (i *Issuer) key(*jwt.Token) (interface{}, error) {
	return i.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &domain.TokenError{Kind: domain.ErrTokenMalformed, Cause: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &domain.TokenError{Kind: domain.ErrTokenTampered, Cause: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &domain.TokenError{Kind: domain.ErrTokenExpired, Cause: err}
	default:
		// Signed by us but with claims we never issue.
		return &domain.TokenError{Kind: domain.ErrTokenMalformed, Cause: err}
	}
}
