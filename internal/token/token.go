// Package token issues and verifies the signed session tokens handed to
// clients after login.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"heartline/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer and Audience are stamped on every token and checked on parse.
	Issuer   = "heartline-api"
	Audience = "heartline-client"

	// Lifetime is how long a token stays valid after issue.
	Lifetime = 7 * 24 * time.Hour

	// MinKeyLength is the HS512 key size in bytes.
	MinKeyLength = 64
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload. NameID carries the username.
type Claims struct {
	NameID string   `json:"nameid"`
	Roles  []string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}

// HasRole reports whether the token grants any of roles.
func (c *Claims) HasRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Service signs tokens with a symmetric key.
type Service struct {
	key []byte
	now func() time.Time
}

// NewService returns a Service for key. Keys shorter than MinKeyLength are
// refused in production.
func NewService(key string, production bool) (*Service, error) {
	if key == "" {
		return nil, errors.New("token key is required")
	}
	if production && len(key) < MinKeyLength {
		return nil, fmt.Errorf("token key must be at least %d bytes", MinKeyLength)
	}
	return &Service{key: []byte(key), now: time.Now}, nil
}

// CreateToken issues a token for user carrying roles.
func (s *Service) CreateToken(user *models.User, roles []string) (string, error) {
	now := s.now()
	claims := Claims{
		NameID: user.Username,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.key)
}

// ParseToken verifies signature, expiry, issuer and audience.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
