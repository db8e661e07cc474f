package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Principal copies the caller identity, already resolved by whatever sits in front of
// the service, from header into the request locals. Nothing is verified here.
func Principal(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := strings.TrimSpace(c.Get(header)); user != "" {
			c.Locals(principalKey, user)
		}
		return c.Next()
	}
}

// User returns the caller identity, or "" when the request carried none.
func User(c *fiber.Ctx) string {
	user, _ := c.Locals(principalKey).(string)
	return user
}
