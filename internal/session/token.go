package session

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessCookieName is the cookie the backend stores the access token in.
const AccessCookieName = "access_token"

// ErrNoAccessToken indicates no access-token cookie is held for the
// configured backend.
var ErrNoAccessToken = errors.New("no access token")

// TokenExpiry reads the expiry claim from the access-token cookie in
// jar. The signature is deliberately not validated; the value is
// informational (shown by the status command), the server remains the
// authority on token acceptance.
func TokenExpiry(jar http.CookieJar, base *url.URL) (time.Time, error) {
	if jar == nil {
		return time.Time{}, ErrNoAccessToken
	}
	for _, ck := range jar.Cookies(base) {
		if ck.Name == AccessCookieName {
			return parseExpiry(ck.Value)
		}
	}
	return time.Time{}, ErrNoAccessToken
}

func parseExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser(jwt.WithoutClaimsValidation()).ParseUnverified(token, &claims)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}
