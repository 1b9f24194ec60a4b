package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catalogapi/internal/service"
)

// UploadAttachment accepts a multipart file (field name: file) for a product.
//
// @Summary  Upload an attachment
// @Tags     attachments
// @Accept   multipart/form-data
// @Produce  json
// @Param    id   path     string true "product ID (UUID)"
// @Param    file formData file   true "file content"
// @Success  201 {object} model.Attachment
// @Failure  400 {object} handler.errorPayload
// @Failure  404 {object} handler.errorPayload
// @Security BearerAuth
// @Router   /products/{id}/attachments [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID := c.Params("id")
		if _, err := uuid.Parse(productID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		att, err := svc.Upload(c.UserContext(), productID, f, fh.Filename, ct, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(att)
	}
}

// ListAttachments returns the attachments of a product, newest first.
//
// @Summary Product attachments
// @Tags    attachments
// @Produce json
// @Param   id path string true "product ID (UUID)"
// @Success 200 {array}  model.Attachment
// @Failure 404 {object} handler.errorPayload
// @Router  /products/{id}/attachments [get]
func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID := c.Params("id")
		if _, err := uuid.Parse(productID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		items, err := svc.ListByProduct(c.UserContext(), productID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// PresignAttachment returns a time-limited download URL for an attachment.
//
// @Summary Presigned download link
// @Tags    attachments
// @Produce json
// @Param   id path string true "attachment ID (UUID)"
// @Success 200 {object} map[string]string
// @Failure 404 {object} handler.errorPayload
// @Router  /attachments/{id}/download [get]
func PresignAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		url, err := svc.PresignDownload(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// DeleteAttachment removes an attachment and its stored object.
//
// @Summary  Delete an attachment
// @Tags     attachments
// @Param    id path string true "attachment ID (UUID)"
// @Success  204
// @Failure  404 {object} handler.errorPayload
// @Security BearerAuth
// @Router   /attachments/{id} [delete]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
