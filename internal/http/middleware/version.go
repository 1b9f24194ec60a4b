package middleware

import "github.com/gofiber/fiber/v2"

// AppVersionHeader carries the running build's version on every response.
const AppVersionHeader = "X-App-Version"

// AppVersion stamps each response with the given version string. It doubles
// as the project's smallest example of a hand-written middleware.
func AppVersion(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(AppVersionHeader, version)
		return c.Next()
	}
}
