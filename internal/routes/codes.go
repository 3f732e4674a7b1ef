package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tembo-pay/tembo_pay/internal/codes"
)

// RegisterCodeRoutes wires code issuing endpoints for authenticated owners.
func RegisterCodeRoutes(r fiber.Router, h *codes.Handler) {
	r.Post("/codes", h.Create)
	r.Get("/codes/:code", h.Get)
}
