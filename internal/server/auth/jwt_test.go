package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func sample() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "res-1"},
		Email:            "resident@x.io",
		Name:             "Asha",
		Role:             "user",
		Flat:             "A-101",
	}
}

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken(sample(), secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.Subject != "res-1" || got.Email != "resident@x.io" || got.Role != "user" || got.Flat != "A-101" || got.Name != "Asha" {
		t.Fatalf("claims mismatch: %+v", got)
	}
	if got.ExpiresAt == nil || time.Until(got.ExpiresAt.Time) <= 0 {
		t.Fatalf("expected future exp, got %v", got.ExpiresAt)
	}
}

func TestGenerateToken_UsesClientClaimNames(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(sample(), []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	m := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, m); err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	for _, k := range []string{"sub", "email", "name", "role", "flat", "exp"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("claim %q missing from %v", k, m)
		}
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken(sample(), secret, -1*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(sample(), []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, sample()).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := ParseToken(tok, []byte("k")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
