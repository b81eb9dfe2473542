// Package session handles the cookie that scopes a visitor's cart.
package session

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session id
const CookieName = "sessionId"

const idPrefix = "sid_"

// ParseCookies parses a Cookie header into a map.
// Pairs are split on the first '=', keys and values are trimmed of the
// surrounding whitespace RFC 6265 allows, values are URL-decoded, and the
// last occurrence of a duplicate key wins.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)
	if header == "" {
		return cookies
	}

	for _, pair := range strings.Split(header, ";") {
		name, value, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		cookies[name] = value
	}

	return cookies
}

// GenerateSessionID returns a new random session id
func GenerateSessionID() string {
	return idPrefix + uuid.NewString()
}

// NewCookie builds the session cookie for id
func NewCookie(name, id string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	}
}
