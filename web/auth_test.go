package web

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/harperreed/fomo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, sub string, expires time.Time, metadata map[string]interface{}) string {
	t.Helper()
	claims := supabaseClaims{
		Email:        "jane@example.com",
		UserMetadata: metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestMockCookieAuth(t *testing.T) {
	s := newTestServer(t, config.AuthMockCookie)

	w := do(t, s, http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/api/v1/session", nil, withCookie("   ")).Code)

	w = do(t, s, http.MethodGet, "/api/v1/session", nil, withCookie("jane.doe"))
	require.Equal(t, http.StatusOK, w.Code)
	var session Session
	decode(t, w, &session)
	assert.Equal(t, "jane.doe", session.UserID)
	assert.Equal(t, "Jane Doe", session.DisplayName)
	assert.Equal(t, "JD", session.Initials)
	assert.Equal(t, config.AuthMockCookie, session.AuthMode)
}

func TestMockCookieLoginLogout(t *testing.T) {
	s := newTestServer(t, config.AuthMockCookie)

	w := do(t, s, http.MethodPost, "/api/auth/login", map[string]string{"userId": "  " + strings.Repeat("x", 130) + " "})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Len(t, cookies[0].Value, MaxUserIDLength)
	assert.True(t, cookies[0].HttpOnly)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/auth/login", map[string]string{"userId": " "}).Code)

	w = do(t, s, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestSupabaseAuth(t *testing.T) {
	s := newTestServer(t, config.AuthSupabase)
	valid := signToken(t, testSecret, "user-123", time.Now().Add(time.Hour), map[string]interface{}{"full_name": "Jane Q Public"})

	w := do(t, s, http.MethodGet, "/api/v1/session", nil, withBearer(valid))
	require.Equal(t, http.StatusOK, w.Code)
	var session Session
	decode(t, w, &session)
	assert.Equal(t, "user-123", session.UserID)
	assert.Equal(t, "Jane Q Public", session.DisplayName)
	assert.Equal(t, "JQ", session.Initials)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/v1/session", nil, withCookie(valid)).Code)

	forged := signToken(t, "wrong-secret", "user-123", time.Now().Add(time.Hour), nil)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/api/v1/session", nil, withBearer(forged)).Code)

	expired := signToken(t, testSecret, "user-123", time.Now().Add(-time.Hour), nil)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/api/v1/session", nil, withBearer(expired)).Code)

	noSub := signToken(t, testSecret, "", time.Now().Add(time.Hour), nil)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/api/v1/session", nil, withBearer(noSub)).Code)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/api/v1/session", nil, withBearer(unsigned)).Code)
}

func TestSupabaseLogin(t *testing.T) {
	s := newTestServer(t, config.AuthSupabase)
	valid := signToken(t, testSecret, "user-123", time.Now().Add(time.Hour), nil)

	w := do(t, s, http.MethodPost, "/api/auth/login", map[string]string{"accessToken": valid})
	require.Equal(t, http.StatusOK, w.Code)
	var session Session
	decode(t, w, &session)
	assert.Equal(t, "jane", session.DisplayName, "falls back to the email local part")
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, valid, w.Result().Cookies()[0].Value)

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodPost, "/api/auth/login", map[string]string{"accessToken": "garbage"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/auth/login", map[string]string{}).Code)
}

func TestLoginModeNone(t *testing.T) {
	s := newTestServer(t, config.AuthNone)
	w := do(t, s, http.MethodPost, "/api/auth/login", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session Session
	decode(t, w, &session)
	assert.Equal(t, "local-user", session.UserID)
}

func TestDisplayNameAndInitials(t *testing.T) {
	assert.Equal(t, "User", DisplayNameFromUserID("  "))
	assert.Equal(t, "Jane Doe Smith", DisplayNameFromUserID("jane_doe-smith"))
	assert.Equal(t, "U", Initials(""))
	assert.Equal(t, "AL", Initials("alice"))
	assert.Equal(t, "A", Initials("a"))
	assert.Equal(t, "AB", Initials("ada byron lovelace"))
}

func TestIssueTokenVerifies(t *testing.T) {
	a := NewAuthenticator(config.AuthConfig{Mode: config.AuthSupabase, JWTSecret: "shh"})

	token, err := IssueToken("shh", "  jane.doe  ", "Jane D", time.Hour)
	require.NoError(t, err)

	session, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", session.UserID)
	assert.Equal(t, "Jane D", session.DisplayName)

	_, err = IssueToken("", "jane", "", time.Hour)
	assert.Error(t, err)
	_, err = IssueToken("shh", " ", "", time.Hour)
	assert.Error(t, err)

	expired, err := IssueToken("shh", "jane", "", -time.Minute)
	require.NoError(t, err)
	_, err = a.VerifyToken(expired)
	assert.Error(t, err)
}
