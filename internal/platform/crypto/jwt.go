package crypto

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims identify a patron. Tokens are issued by the OAuth flow that
// fronts the catalog and share its signing secret.
type Claims struct {
	Sub  string `json:"sub"`            // patron email
	Name string `json:"name,omitempty"` // display name
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 token and returns its claims. The catalog
// only verifies tokens; minting them is the OAuth flow's job.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
