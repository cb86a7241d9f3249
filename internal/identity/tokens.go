package identity

import (
	"fmt"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

const issuer = "whodidit-backend"

type principalClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens that carry a Principal.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for p.
func (t *Tokens) Issue(p models.Principal) (string, error) {
	if p.ID == "" {
		return "", apperr.Validation("id", "principal id is required")
	}
	now := t.now()
	claims := principalClaims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies raw and returns the principal it carries. Every failure is
// reported as ErrUnauthenticated.
func (t *Tokens) Parse(raw string) (*models.Principal, error) {
	claims := &principalClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w: %w", apperr.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("parse token: missing subject: %w", apperr.ErrUnauthenticated)
	}
	return &models.Principal{ID: claims.Subject, Email: claims.Email}, nil
}
