package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func signedToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestExtractAuthClaimsRoundTrip(t *testing.T) {
	secret := []byte("shared-secret")
	tokenString := signedToken(t, secret, jwt.MapClaims{
		"sub":  "user-1",
		"role": "professional",
		"name": "Dr. Amal",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ExtractAuthClaims(tokenString, secret)
	if err != nil {
		t.Fatalf("ExtractAuthClaims failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "professional" || claims.Name != "Dr. Amal" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestExtractAuthClaimsOptionalFields(t *testing.T) {
	secret := []byte("shared-secret")
	tokenString := signedToken(t, secret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ExtractAuthClaims(tokenString, secret)
	if err != nil {
		t.Fatalf("ExtractAuthClaims failed: %v", err)
	}
	if claims.Role != "" || claims.Name != "" {
		t.Errorf("omitted claims should default to empty, got %+v", claims)
	}
}

func TestExtractAuthClaimsRejectsMissingSubject(t *testing.T) {
	secret := []byte("shared-secret")
	tokenString := signedToken(t, secret, jwt.MapClaims{
		"role": "client",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if _, err := ExtractAuthClaims(tokenString, secret); err == nil {
		t.Fatal("token without sub must be rejected")
	}
}

func TestExtractAuthClaimsRejectsWrongSecret(t *testing.T) {
	tokenString := signedToken(t, []byte("issuer-secret"), jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := ExtractAuthClaims(tokenString, []byte("other-secret")); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestExtractAuthClaimsRejectsExpired(t *testing.T) {
	secret := []byte("shared-secret")
	tokenString := signedToken(t, secret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	if _, err := ExtractAuthClaims(tokenString, secret); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestValidateTokenRejectsNonHMAC(t *testing.T) {
	// alg=none tokens must never pass, whatever their payload says.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := ExtractAuthClaims(tokenString, []byte("secret")); err == nil {
		t.Fatal("unsigned token must be rejected")
	}
}

func TestTokenSuffix(t *testing.T) {
	if got := TokenSuffix("abcdefghij", 4); got != "ghij" {
		t.Errorf("expected suffix %q, got %q", "ghij", got)
	}
	if got := TokenSuffix("ab", 4); got != "ab" {
		t.Errorf("short tokens are returned whole, got %q", got)
	}
}

func TestHashTokenIsStableAndOpaque(t *testing.T) {
	a := HashToken("token-a")
	if a != HashToken("token-a") {
		t.Error("hash must be deterministic")
	}
	if a == HashToken("token-b") {
		t.Error("distinct tokens must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected a hex sha256 digest, got %d chars", len(a))
	}
}
