package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/http/middleware"
	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"catalogapi/internal/validation"
)

// Register creates a new account.
//
// @Summary Register an account
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   credentials body model.Credentials true "username and password"
// @Success 201 {object} model.User
// @Failure 409 {object} handler.errorPayload
// @Failure 422 {object} handler.errorPayload
// @Router  /auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var creds model.Credentials
		if err := c.BodyParser(&creds); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if violations := validation.Struct(creds); violations != nil {
			return writeValidationError(c, violations)
		}

		u, err := svc.Register(c.UserContext(), creds)
		if err != nil {
			if errors.Is(err, service.ErrUsernameTaken) {
				return writeError(c, fiber.StatusConflict, "USERNAME_TAKEN", "username is taken")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// Login exchanges credentials for a bearer token. BodyParser accepts both
// JSON and form-encoded bodies, so OAuth2-style password forms work too.
//
// @Summary Obtain a bearer token
// @Tags    auth
// @Accept  json
// @Accept  x-www-form-urlencoded
// @Produce json
// @Param   credentials body model.Credentials true "username and password"
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} handler.errorPayload
// @Router  /auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var creds model.Credentials
		if err := c.BodyParser(&creds); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if violations := validation.Struct(creds); violations != nil {
			return writeValidationError(c, violations)
		}

		token, err := svc.Login(c.UserContext(), creds)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(token)
	}
}

// Me echoes the verified claims of the calling token.
//
// @Summary  Current account
// @Tags     auth
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  401 {object} handler.errorPayload
// @Security BearerAuth
// @Router   /auth/me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.CurrentUser(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.JSON(fiber.Map{
			"user_id":  claims.Subject,
			"username": claims.Username,
		})
	}
}
