// ABOUTME: Session identity shown to clients
// ABOUTME: Derives a display name and initials from the user id or token claims
package web

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Session is the authenticated identity of a request.
type Session struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Initials    string `json:"initials"`
	AuthMode    string `json:"authMode"`
}

var separators = regexp.MustCompile(`[._-]+`)

// DisplayNameFromUserID turns "jane.doe" into "Jane Doe".
func DisplayNameFromUserID(userID string) string {
	if strings.TrimSpace(userID) == "" {
		return "User"
	}
	words := strings.Fields(separators.ReplaceAllString(userID, " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Initials returns the first letters of the first two words, or the first
// two letters of a single word.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "U"
	case 1:
		r := []rune(parts[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	}
	first, _ := utf8.DecodeRuneInString(parts[0])
	second, _ := utf8.DecodeRuneInString(parts[1])
	return strings.ToUpper(string([]rune{first, second}))
}

func newSession(userID, displayName, mode string) *Session {
	if strings.TrimSpace(displayName) == "" {
		displayName = DisplayNameFromUserID(userID)
	}
	return &Session{
		UserID:      userID,
		DisplayName: displayName,
		Initials:    Initials(displayName),
		AuthMode:    mode,
	}
}
