package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"itemtrack/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func testUser() models.User {
	return models.User{
		ID:    "u-1",
		Name:  "alice",
		Email: "alice@example.com",
		Role:  models.RoleUser,
	}
}

func TestCodec_IssueAndParse_Roundtrip(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	signed, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := c.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	ident := claims.Identity()
	want := models.Identity{ID: "u-1", Name: "alice", Email: "alice@example.com", Role: models.RoleUser}
	if ident != want {
		t.Fatalf("identity mismatch: got %+v, want %+v", ident, want)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("expected future expiry, got %v", claims.ExpiresAt)
	}
}

func TestCodec_Parse_Expired(t *testing.T) {
	c := NewCodec("test-secret", -time.Minute) // already expired at issue time

	signed, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := c.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestCodec_Parse_TamperedSignature(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	signed, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Flip one byte of the signature segment.
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := c.Parse(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestCodec_Parse_WrongSecret(t *testing.T) {
	signed, err := NewCodec("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := NewCodec("secret-b", time.Hour).Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestCodec_Parse_Malformed(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := c.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestCodec_Parse_RejectsNonHMACAlg(t *testing.T) {
	c := NewCodec("test-secret", time.Hour)

	// alg=none tokens must never verify, signature or not.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u-1",
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	if _, err := c.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
