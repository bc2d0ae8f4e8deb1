package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminAuth guards administrative routes with a static bearer token. The
// comparison is constant time so the token cannot be probed byte by byte.
func AdminAuth(token string) fiber.Handler {
	expected := []byte("Bearer " + token)
	return func(c *fiber.Ctx) error {
		presented := []byte(c.Get(fiber.HeaderAuthorization))
		if len(presented) != len(expected) ||
			subtle.ConstantTimeCompare(presented, expected) != 1 {
			return JSONError(c, fiber.StatusUnauthorized, "INVALID_ADMIN_TOKEN")
		}
		return c.Next()
	}
}
