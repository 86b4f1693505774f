package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	jar, base := testJar(t)
	expiry := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	jar.SetCookies(base, []*http.Cookie{{
		Name:  AccessCookieName,
		Value: signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiry)}),
		Path:  "/",
	}})

	got, err := TokenExpiry(jar, base)
	require.NoError(t, err)
	assert.WithinDuration(t, expiry, got, time.Second)
}

func TestTokenExpiryNoCookie(t *testing.T) {
	jar, base := testJar(t)
	_, err := TokenExpiry(jar, base)
	assert.ErrorIs(t, err, ErrNoAccessToken)

	_, err = TokenExpiry(nil, base)
	assert.ErrorIs(t, err, ErrNoAccessToken)
}

func TestTokenExpiryMalformed(t *testing.T) {
	jar, base := testJar(t)
	jar.SetCookies(base, []*http.Cookie{{Name: AccessCookieName, Value: "not-a-jwt", Path: "/"}})

	_, err := TokenExpiry(jar, base)
	assert.Error(t, err)
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	jar, base := testJar(t)
	jar.SetCookies(base, []*http.Cookie{{
		Name:  AccessCookieName,
		Value: signedToken(t, jwt.RegisteredClaims{Subject: "7"}),
		Path:  "/",
	}})

	_, err := TokenExpiry(jar, base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no expiry claim")
}
