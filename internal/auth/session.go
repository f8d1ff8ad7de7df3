package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "jwt"

// SessionCookie moves tokens between client and server in an HttpOnly cookie.
// Secure defaults to false so the API works over plain HTTP in development; set
// AUTH_COOKIE_SECURE in any deployment behind TLS.
type SessionCookie struct {
	Name   string
	Secure bool
}

// NewSessionCookie builds the transport. An empty name uses DefaultCookieName.
func NewSessionCookie(name string, secure bool) *SessionCookie {
	if name == "" {
		name = DefaultCookieName
	}
	return &SessionCookie{Name: name, Secure: secure}
}

// Attach sets the session cookie for the whole path.
func (s *SessionCookie) Attach(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear expires the cookie on the client. The token itself stays valid until its exp
// because the server keeps no session record.
func (s *SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Token extracts the presented token: the cookie first, then an Authorization bearer header.
func (s *SessionCookie) Token(c *fiber.Ctx) string {
	if tok := c.Cookies(s.Name); tok != "" {
		return tok
	}
	return bearerToken(c.Get(fiber.HeaderAuthorization))
}
