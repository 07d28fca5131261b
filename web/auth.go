// ABOUTME: Authentication gate for the HTTP API
// ABOUTME: Supports no auth, a mock user-id cookie, and Supabase HS256 access tokens
package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/harperreed/fomo/config"
)

const (
	// SessionCookie carries the user id (mock-cookie) or access token (supabase).
	SessionCookie = "fomo_session"
	// MaxUserIDLength caps user ids accepted at login.
	MaxUserIDLength = 120

	sessionMaxAge = 60 * 60 * 24 * 30
	sessionKey    = "session"
)

var ErrUnauthorized = errors.New("unauthorized")

// supabaseClaims is the subset of a Supabase access token we read.
type supabaseClaims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	cfg    config.AuthConfig
	parser *jwt.Parser
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{
		cfg:    cfg,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// IssueToken signs a Supabase-shaped HS256 access token for userID. Used to
// mint local tokens for the remote tier and for manual API calls.
func IssueToken(secret, userID, displayName string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	userID = SanitizeUserID(userID)
	if userID == "" {
		return "", errors.New("user id is empty")
	}

	now := time.Now()
	claims := supabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if displayName != "" {
		claims.UserMetadata = map[string]interface{}{"full_name": displayName}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SanitizeUserID trims and truncates a login user id.
func SanitizeUserID(raw string) string {
	id := strings.TrimSpace(raw)
	if r := []rune(id); len(r) > MaxUserIDLength {
		id = string(r[:MaxUserIDLength])
	}
	return id
}

// Authenticate resolves the session of a request.
func (a *Authenticator) Authenticate(r *http.Request) (*Session, error) {
	switch a.cfg.Mode {
	case config.AuthNone, "":
		return newSession(a.cfg.DefaultUserID, "", config.AuthNone), nil

	case config.AuthMockCookie:
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			return nil, ErrUnauthorized
		}
		userID := strings.TrimSpace(cookieValue(cookie))
		if userID == "" {
			return nil, ErrUnauthorized
		}
		return newSession(userID, "", config.AuthMockCookie), nil

	case config.AuthSupabase:
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				token = cookieValue(cookie)
			}
		}
		if token == "" {
			return nil, ErrUnauthorized
		}
		return a.VerifyToken(token)
	}
	return nil, fmt.Errorf("unknown auth mode %q", a.cfg.Mode)
}

// VerifyToken checks a Supabase access token and returns its session.
func (a *Authenticator) VerifyToken(token string) (*Session, error) {
	claims := &supabaseClaims{}
	parsed, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}

	userID := SanitizeUserID(claims.Subject)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return newSession(userID, displayNameFromClaims(claims), config.AuthSupabase), nil
}

func displayNameFromClaims(c *supabaseClaims) string {
	for _, key := range []string{"full_name", "name"} {
		if s, ok := c.UserMetadata[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if local, _, ok := strings.Cut(c.Email, "@"); ok && local != "" {
		return local
	}
	return ""
}

// cookieValue undoes the query escaping gin applies when setting cookies.
func cookieValue(c *http.Cookie) string {
	if v, err := url.QueryUnescape(c.Value); err == nil {
		return v
	}
	return c.Value
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireSession aborts with 401 unless the request is authenticated.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.auth.Authenticate(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *Session {
	v, _ := c.Get(sessionKey)
	session, _ := v.(*Session)
	return session
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", s.cfg.Auth.CookieSecure, true)
}

type loginRequest struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

func (s *Server) handleLogin(c *gin.Context) {
	mode := s.cfg.Auth.Mode

	var req loginRequest
	if mode != config.AuthNone {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	switch mode {
	case config.AuthMockCookie:
		userID := SanitizeUserID(req.UserID)
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
			return
		}
		s.setSessionCookie(c, userID, sessionMaxAge)
		c.JSON(http.StatusOK, newSession(userID, "", mode))

	case config.AuthSupabase:
		token := strings.TrimSpace(req.AccessToken)
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Access token is required"})
			return
		}
		session, err := s.auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Supabase session"})
			return
		}
		s.setSessionCookie(c, token, sessionMaxAge)
		c.JSON(http.StatusOK, session)

	default:
		session, _ := s.auth.Authenticate(c.Request)
		c.JSON(http.StatusOK, session)
	}
}

func (s *Server) handleLogout(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c))
}
