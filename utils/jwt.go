package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/golang-jwt/jwt"
)

// AuthClaims carries the identity the account service embedded in a bearer token.
type AuthClaims struct {
	UserID string
	Role   string
	Name   string
}

// ValidateToken parses and validates a token string against the given secret
// and returns the token if valid.
func ValidateToken(tokenString string, secret []byte) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenSuffix returns the last n characters of a token, for audit records
// that must never store the full credential.
func TokenSuffix(token string, n int) string {
	if len(token) <= n {
		return token
	}
	return token[len(token)-n:]
}

// ExtractAuthClaims validates a bearer token and pulls out the claims this
// service relies on. The "sub" claim is mandatory; "role" and "name" default
// to empty strings when the issuer omitted them.
func ExtractAuthClaims(tokenString string, secret []byte) (*AuthClaims, error) {
	token, err := ValidateToken(tokenString, secret)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}

	out := &AuthClaims{UserID: sub}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if name, ok := claims["name"].(string); ok {
		out.Name = name
	}
	return out, nil
}
