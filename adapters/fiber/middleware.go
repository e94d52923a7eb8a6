package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/lborres/civika"
)

// Protected creates a Fiber middleware that validates session tokens
// and stores the resolved account in the context for downstream
// handlers.
func Protected(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		token := extractToken(fctx)
		if token == "" {
			return fctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": civika.ErrInvalidToken.Error(),
			})
		}

		account, err := c.Sessions.Authenticate(token)
		if err != nil {
			return fctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		fctx.Locals("account", account)

		return fctx.Next()
	}
}
