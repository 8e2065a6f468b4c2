package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"leadboard/utils"

	"github.com/gofiber/fiber/v2"
)

// LocalCSRFToken is the Locals key holding the token issued for the request
const LocalCSRFToken = "csrf"

// CSRFConfig holds CSRF protection configuration
type CSRFConfig struct {
	TokenLength  int
	CookieName   string
	HeaderName   string
	CookieMaxAge int
	CookieSecure bool
	// Skipper exempts a request from the check
	Skipper func(*fiber.Ctx) bool
}

// DefaultCSRFConfig returns default CSRF configuration. Token-authenticated
// requests carry no ambient credentials and are skipped.
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		TokenLength:  32,
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		CookieMaxAge: 3600,
		Skipper:      IsBearer,
	}
}

var safeMethods = map[string]bool{
	fiber.MethodGet:     true,
	fiber.MethodHead:    true,
	fiber.MethodOptions: true,
}

// CSRFProtection rejects cookie-authenticated writes whose X-CSRF-Token header
// does not echo the csrf_token cookie. It must run after Identity.
func CSRFProtection(cfg CSRFConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if safeMethods[c.Method()] || (cfg.Skipper != nil && cfg.Skipper(c)) {
			return c.Next()
		}

		cookie, header := c.Cookies(cfg.CookieName), c.Get(cfg.HeaderName)
		if cookie == "" || header == "" {
			return utils.ForbiddenError("CSRF token missing", nil).WithKey("error_csrf")
		}
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			utils.Log.Warn("CSRF token mismatch on %s %s from %s", c.Method(), c.Path(), c.IP())
			return utils.ForbiddenError("CSRF token mismatch", nil).WithKey("error_csrf")
		}
		return c.Next()
	}
}

// IssueCSRFToken creates a token, sets it as the csrf_token cookie and returns
// it for the client to send back in the header.
func IssueCSRFToken(c *fiber.Ctx, cfg CSRFConfig) (string, error) {
	b := make([]byte, cfg.TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		MaxAge:   cfg.CookieMaxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   cfg.CookieSecure,
	})
	c.Locals(LocalCSRFToken, token)
	return token, nil
}
