package token

import (
	"errors"
	"fmt"
	"time"

	"quicknotes/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired means the token was once valid but its expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers bad signatures and malformed tokens.
	ErrInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints session tokens from identities and resolves them back. The
// signing secret is fixed for the life of the process; there is no rotation.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) Issue(identity *domain.Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  identity.UserID,
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Resolve verifies signature and expiry and reconstructs the embedded
// Identity. Claims are trusted as of issuance time; there is no store
// lookup, so a profile change is not visible until a new token is issued.
func (i *Issuer) Resolve(tokenString string) (*domain.Identity, error) {
	claims := &Claims{}
	parsed, err := i.parse(tokenString, claims)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}

	return &domain.Identity{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

func (i *Issuer) parse(tokenString string, claims *Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
}
