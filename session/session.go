// Package session decides whether a request carries the administrator
// session, and mints the cookie value handed out at login.
//
// A session is the auth_token cookie. In plain mode its value is the
// administrator secret itself. In signed mode it is a short lived HS256 JWT
// keyed by the secret, so the secret never travels back to the browser.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the cookie carrying the session token.
	CookieName = "auth_token"
	// MaxAge is how long a session cookie is kept by the browser.
	MaxAge = 24 * time.Hour
)

const (
	ModePlain  = "plain"
	ModeSigned = "signed"
)

// ErrUnsafeSecret is returned for a plain mode secret that cannot be carried
// verbatim in a cookie value.
var ErrUnsafeSecret = errors.New("secret contains bytes not allowed in a cookie value")

// Manager issues session tokens and checks presented ones.
type Manager interface {
	Issue() (string, error)
	Valid(token string) bool
}

// New returns the manager for mode. An empty mode means ModePlain.
// Plain mode requires a secret made only of cookie-octet bytes (printable
// ASCII without space, double quote, comma, semicolon or backslash); any
// other secret is rejected with ErrUnsafeSecret. Signed mode accepts any
// secret.
func New(mode, secret string) (Manager, error) {
	switch mode {
	case "", ModePlain:
		if !cookieSafe(secret) {
			return nil, fmt.Errorf("plain session: %w", ErrUnsafeSecret)
		}
		return Plain{Secret: secret}, nil
	case ModeSigned:
		return NewSigned(secret), nil
	default:
		return nil, fmt.Errorf("unknown session mode: %q", mode)
	}
}

// Plain uses the secret itself as the token.
type Plain struct {
	Secret string
}

func (p Plain) Issue() (string, error) {
	if p.Secret == "" {
		return "", errors.New("issue session: empty secret")
	}
	if !cookieSafe(p.Secret) {
		return "", fmt.Errorf("issue session: %w", ErrUnsafeSecret)
	}
	return p.Secret, nil
}

// Valid compares in constant time. An empty secret never matches.
func (p Plain) Valid(token string) bool {
	return equal(token, p.Secret)
}

// Signed issues HS256 JWTs with subject "admin" expiring after MaxAge.
type Signed struct {
	key []byte
	now func() time.Time
}

const subject = "admin"

func NewSigned(secret string) *Signed {
	return &Signed{key: []byte(secret), now: time.Now}
}

func (s *Signed) Issue() (string, error) {
	if len(s.key) == 0 {
		return "", errors.New("issue session: empty secret")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(MaxAge)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return token, nil
}

func (s *Signed) Valid(token string) bool {
	if len(s.key) == 0 || token == "" {
		return false
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	return err == nil
}

// Check reports whether any auth_token field of a raw Cookie header is a
// valid token for m.
func Check(cookieHeader string, m Manager) bool {
	for _, value := range tokens(cookieHeader) {
		if m.Valid(value) {
			return true
		}
	}
	return false
}

// Authorized reports whether the Cookie header carries an auth_token equal to
// secret. It is Check with a Plain manager.
func Authorized(cookieHeader, secret string) bool {
	return Check(cookieHeader, Plain{Secret: secret})
}

// tokens returns every auth_token value in a Cookie header, in order.
// Fields without "=" are ignored; quoted values are unquoted.
func tokens(header string) []string {
	var found []string
	for _, field := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok || strings.TrimSpace(name) != CookieName {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			if unquoted, err := strconv.Unquote(value); err == nil {
				value = unquoted
			} else {
				value = value[1 : len(value)-1]
			}
		}
		found = append(found, value)
	}
	return found
}

func equal(token, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

// cookieSafe reports whether every byte of s is a cookie-octet (RFC 6265).
func cookieSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b <= 0x20 || b >= 0x7f || b == '"' || b == ',' || b == ';' || b == '\\' {
			return false
		}
	}
	return true
}
