package auth

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const CSRFCookieName = "csrftoken"

func NewHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &http.Client{
		Jar:     jar,
		Timeout: 45 * time.Second,
	}, nil
}

// Session is the per-process authentication context: the signed-in user id
// and the CSRF token read from the cookie jar. The zero value is signed out.
type Session struct {
	userID int64
	csrf   string
}

func (s *Session) SetUser(id int64) {
	s.userID = id
}

func (s *Session) UserID() (int64, bool) {
	return s.userID, s.userID > 0
}

// Clear tears the session down on logout. The cached CSRF token goes too.
func (s *Session) Clear() {
	s.userID = 0
	s.csrf = ""
}

func (s *Session) SetCSRFToken(token string) {
	s.csrf = token
}

// CSRFToken returns the cached token, reading the cookie jar on first use.
// A missing cookie yields "" and is retried on the next call.
func (s *Session) CSRFToken(client *http.Client, baseURL string) string {
	if s.csrf != "" {
		return s.csrf
	}
	token, err := ExtractCSRFToken(client, baseURL)
	if err != nil {
		return ""
	}
	s.csrf = token
	return token
}

func ExtractCSRFToken(client *http.Client, baseURL string) (string, error) {
	if client == nil || client.Jar == nil {
		return "", fmt.Errorf("http client has no cookie jar")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	// The cookie value is sent back verbatim in the header.
	for _, c := range client.Jar.Cookies(u) {
		if strings.ToLower(c.Name) == CSRFCookieName && c.Value != "" {
			return c.Value, nil
		}
	}

	return "", fmt.Errorf("csrf token cookie not found in session")
}
