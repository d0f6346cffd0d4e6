package videoaccess

import (
	"errors"
	"time"

	"holistic/models"
	"holistic/utils"

	"github.com/golang-jwt/jwt"
)

// VideoClaims are the verified contents of a video access token.
type VideoClaims struct {
	UserID    string
	SessionID string
	Role      string
}

// MintToken signs a video access token binding the user to the session. The
// expiry is capped at the end of the session's access window so a token can
// never outlive the call it was issued for.
func MintToken(sess *models.Session, userID, role string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	if windowEnd := sess.EndTime.Add(utils.AccessWindowGrace); exp.After(windowEnd) {
		exp = windowEnd
	}

	claims := jwt.MapClaims{
		"sub":       userID,
		"sessionId": sess.ID,
		"role":      role,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken validates a video access token and returns its claims.
func ParseToken(tokenString string, secret []byte) (*VideoClaims, error) {
	token, err := utils.ValidateToken(tokenString, secret)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid video access token")
	}
	return claimsFromMap(claims)
}

// UnverifiedClaims decodes a token without validating its signature or
// expiry. Used only to attribute audit records for rejected tokens; never
// for an access decision.
func UnverifiedClaims(tokenString string) *VideoClaims {
	parser := new(jwt.Parser)
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	vc, err := claimsFromMap(claims)
	if err != nil {
		return nil
	}
	return vc
}

func claimsFromMap(claims jwt.MapClaims) (*VideoClaims, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("video token missing 'sub' claim")
	}
	sessionID, ok := claims["sessionId"].(string)
	if !ok || sessionID == "" {
		return nil, errors.New("video token missing 'sessionId' claim")
	}
	role, _ := claims["role"].(string)
	return &VideoClaims{UserID: sub, SessionID: sessionID, Role: role}, nil
}
