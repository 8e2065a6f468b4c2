package middleware

import (
	"leadboard/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// LocalUserID is the Locals key holding the acting user's id
	LocalUserID = "userId"
	// LocalAuthMethod records how the user was identified: "bearer" or "session"
	LocalAuthMethod = "authMethod"
	// SessionUserKey is the session key the login handler stores the user id under
	SessionUserKey = "user_id"
)

// Identity resolves the acting user from a bearer token or, failing that, the
// session cookie. Requests with neither are rejected with 401.
func Identity(store *session.Store, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			claims, err := utils.ParseToken(token, secret)
			if err != nil || claims.Subject == "" {
				utils.Log.Debug("Rejected bearer token for %s: %v", c.Path(), err)
				return utils.UnauthorizedError("Unauthenticated", err)
			}
			c.Locals(LocalUserID, claims.Subject)
			c.Locals(LocalAuthMethod, "bearer")
			return c.Next()
		}

		sess, err := store.Get(c)
		if err != nil {
			return utils.UnauthorizedError("Unauthenticated", err)
		}
		userID, ok := sess.Get(SessionUserKey).(string)
		if !ok || userID == "" {
			return utils.UnauthorizedError("Unauthenticated", nil)
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalAuthMethod, "session")
		return c.Next()
	}
}

// UserID returns the id resolved by Identity
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(LocalUserID).(string)
	return id, ok && id != ""
}

// IsBearer reports whether the request was authenticated by token
func IsBearer(c *fiber.Ctx) bool {
	method, _ := c.Locals(LocalAuthMethod).(string)
	return method == "bearer"
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, token != ""
}
