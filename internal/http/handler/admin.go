package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AdminStats reports row counts for the main tables. RegisterRoutes mounts it
// behind the API key middleware.
//
// @Summary  Table row counts
// @Tags     admin
// @Produce  json
// @Success  200 {object} map[string]int64
// @Failure  401 {object} handler.errorPayload
// @Security ApiKeyAuth
// @Router   /admin/stats [get]
func AdminStats(db *sql.DB) fiber.Handler {
	queries := []struct {
		name string
		sql  string
	}{
		{"products", "SELECT COUNT(*) FROM products"},
		{"users", "SELECT COUNT(*) FROM users"},
		{"attachments", "SELECT COUNT(*) FROM attachments"},
	}

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		stats := fiber.Map{}
		for _, q := range queries {
			var n int64
			if err := db.QueryRowContext(ctx, q.sql).Scan(&n); err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			stats[q.name] = n
		}
		return c.JSON(stats)
	}
}
