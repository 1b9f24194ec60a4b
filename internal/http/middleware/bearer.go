package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/auth"
)

// AuthClaimsLocalKey is the key used to store verified token claims in
// Fiber's context locals.
const AuthClaimsLocalKey = "auth_claims"

// TokenParser verifies a compact token string and returns its claims.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireBearer rejects requests that do not carry a valid bearer token in
// the Authorization header. On success the claims land in context locals
// under AuthClaimsLocalKey; CurrentUser reads them back.
func RequireBearer(parser TokenParser) fiber.Handler {
	const prefix = "Bearer "

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := parser.Parse(strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api", error="invalid_token"`)
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(AuthClaimsLocalKey, claims)
		return c.Next()
	}
}

// CurrentUser returns the claims stored by RequireBearer, or nil when the
// request was not authenticated.
func CurrentUser(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(AuthClaimsLocalKey).(*auth.Claims)
	return claims
}
