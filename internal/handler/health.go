package handler

import "github.com/gofiber/fiber/v2"

// Configurable reports whether a backing service is ready to take requests.
type Configurable interface {
	IsConfigured() bool
}

type HealthHandler struct {
	uploads Configurable
}

func NewHealthHandler(uploads Configurable) *HealthHandler {
	return &HealthHandler{uploads: uploads}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"siliconflow": h.uploads != nil && h.uploads.IsConfigured(),
		},
	})
}
