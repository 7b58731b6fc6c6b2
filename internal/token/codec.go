package token

import (
	"errors"
	"fmt"
	"time"

	"itemtrack/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: malformed structure,
// signature mismatch, or expiry in the past.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload of a session token. The token itself is the
// entire session state; nothing is persisted server-side.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// Identity converts verified claims into the request identity.
func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// Codec signs and verifies session tokens with a single shared HMAC key.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec from the configured signing key and token lifetime.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime (also used for cookie max-age).
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token carrying the user's identity, valid for the
// configured lifetime from now.
func (c *Codec) Issue(u models.User) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of a token and returns its claims.
// No clock-skew leeway is applied.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
