package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notenexus/notenexus/internal/common"
)

// Claims carried by a session token: the registered claim set plus the
// profile id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// IssueSessionToken signs an HS256 session token for the profile.
func IssueSessionToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// UserIDFromToken verifies the token signature and expiry and returns the
// embedded profile id.
func UserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
