package crypto

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the API trusts. Tokens are issued by an
// external identity provider; this package only verifies and parses them.
type Claims struct {
	Sub      string `json:"sub"`                // user id
	Username string `json:"preferred_username"` // display name
	Email    string `json:"email"`
	Role     string `json:"role"` // USER/MODERATOR
	jwt.RegisteredClaims
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
