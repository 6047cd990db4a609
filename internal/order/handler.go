package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
	"github.com/wichananm65/kunapet-backend/internal/user"
)

// Handler exposes the signed-in user's orders. Orders are only created by
// checkout.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/:code", h.getOrder)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	code := c.Params("code")
	ord, err := h.service.GetForUser(c.UserContext(), userID, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.Respond(c, apperrors.NotFound("order", code))
		}
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(ord)
}
