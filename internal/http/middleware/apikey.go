package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// APIKeyHeader is the header admin clients authenticate with.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey guards routes with a static API key check. Every configured
// key is compared in constant time before the verdict is returned.
func RequireAPIKey(keys []string) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup: "header:" + APIKeyHeader,
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			match := false
			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					match = true
				}
			}
			if !match {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid API key")
		},
	})
}
