// ABOUTME: Invite token validation, link building, and link parsing
// ABOUTME: Tokens are 1 to 128 characters of letters, digits, '_' and '-'
package contacts

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// MaxInviteTokenLength bounds the accepted token size.
const MaxInviteTokenLength = 128

var inviteTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewInviteToken returns a fresh ULID token.
func NewInviteToken() string {
	return ulid.Make().String()
}

// ValidInviteToken reports whether token, once trimmed, is a usable token.
func ValidInviteToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > MaxInviteTokenLength {
		return false
	}
	return inviteTokenPattern.MatchString(token)
}

// InviteLink builds <origin>/invite?token=<token>.
func InviteLink(origin, token string) string {
	origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
	return origin + "/invite?token=" + url.QueryEscape(token)
}

// ParseInviteToken extracts a valid token from a full invite URL or a bare
// path such as /invite?token=abc. It returns "" when there is none.
func ParseInviteToken(link string) string {
	if strings.TrimSpace(link) == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	token := u.Query().Get("token")
	if !ValidInviteToken(token) {
		return ""
	}
	return token
}
