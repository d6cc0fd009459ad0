package auth

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// DisplayName reads the token's claims without verifying the signature or
// expiry and picks something printable. Tokens that are not JWTs yield "".
// The result is for display only, never for authorization.
func DisplayName(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"username", "email", "sub"} {
		if v, ok := claims[key]; ok {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return ""
}
