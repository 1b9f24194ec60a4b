package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"catalogapi/internal/validation"
)

// ListProducts returns a page of products.
//
// @Summary     List products
// @Description Lists products with limit/offset pagination and an optional name search.
// @Tags        products
// @Produce     json
// @Param       limit  query int    false "page size (1-100)" default(10)
// @Param       offset query int    false "rows to skip" default(0)
// @Param       q      query string false "case-insensitive name filter"
// @Success     200 {object} service.ProductListResult
// @Failure     400 {object} handler.errorPayload
// @Router      /products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset, c.Query("q"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// CreateProduct stores a new product.
//
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    product body model.CreateProductRequest true "product to create"
// @Success  201 {object} model.Product
// @Failure  422 {object} handler.errorPayload
// @Security BearerAuth
// @Router   /products [post]
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.CreateProductRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if violations := validation.Struct(req); violations != nil {
			return writeValidationError(c, violations)
		}

		p, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GetProduct returns one product by ID.
//
// @Summary Get a product
// @Tags    products
// @Produce json
// @Param   id path string true "product ID (UUID)"
// @Success 200 {object} model.Product
// @Failure 404 {object} handler.errorPayload
// @Router  /products/{id} [get]
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(p)
	}
}

// UpdateProduct applies a partial update to a product.
//
// @Summary  Update a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    id      path string                     true "product ID (UUID)"
// @Param    product body model.UpdateProductRequest true "fields to change"
// @Success  200 {object} model.Product
// @Failure  404 {object} handler.errorPayload
// @Failure  422 {object} handler.errorPayload
// @Security BearerAuth
// @Router   /products/{id} [put]
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req model.UpdateProductRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if violations := validation.Struct(req); violations != nil {
			return writeValidationError(c, violations)
		}

		p, err := svc.Update(c.UserContext(), id, req)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(p)
	}
}

// DeleteProduct removes a product by ID.
//
// @Summary  Delete a product
// @Tags     products
// @Param    id path string true "product ID (UUID)"
// @Success  204
// @Failure  404 {object} handler.errorPayload
// @Security BearerAuth
// @Router   /products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
