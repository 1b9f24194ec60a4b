package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/http/middleware"
	"catalogapi/internal/model"
	"catalogapi/internal/validation"
)

// currencyCookie keeps the client's display currency between visits.
const currencyCookie = "currency"

const currencyCookieTTL = 30 * 24 * time.Hour

// SetPreferences stores the client's currency choice in a cookie.
//
// @Summary Save session preferences
// @Tags    session
// @Accept  json
// @Param   preferences body model.PreferencesRequest true "preferences"
// @Success 204
// @Failure 422 {object} handler.errorPayload
// @Router  /session/preferences [put]
func SetPreferences() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.PreferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if violations := validation.Struct(req); violations != nil {
			return writeValidationError(c, violations)
		}

		c.Cookie(&fiber.Cookie{
			Name:     currencyCookie,
			Value:    req.Currency,
			Path:     "/",
			Expires:  time.Now().Add(currencyCookieTTL),
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ClearPreferences drops the currency cookie by expiring it.
//
// @Summary Clear session preferences
// @Tags    session
// @Success 204
// @Router  /session/preferences [delete]
func ClearPreferences() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:    currencyCookie,
			Value:   "",
			Path:    "/",
			Expires: time.Now().Add(-time.Hour),
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetClientInfo echoes request metadata read from headers and cookies.
//
// @Summary Inspect the calling client
// @Tags    session
// @Produce json
// @Success 200 {object} model.ClientInfo
// @Router  /session/client [get]
func GetClientInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals(middleware.RequestIDLocalKey).(string)
		return c.JSON(model.ClientInfo{
			RequestID: rid,
			UserAgent: c.Get(fiber.HeaderUserAgent),
			ClientIP:  c.IP(),
			Currency:  c.Cookies(currencyCookie, "USD"),
		})
	}
}
