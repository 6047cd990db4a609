package provider

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
	"github.com/wichananm65/kunapet-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler { return &Handler{service: s} }

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/providers", h.getProviders)
	app.Get("/api/v1/providers/:id", h.getProvider)
	app.Get("/api/v1/providers/:id/reviews", h.getReviews)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/providers/:id/delivery/toggle", h.toggleDelivery)
}

func (h *Handler) getProviders(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(items)
}

func (h *Handler) getProvider(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) getReviews(c *fiber.Ctx) error {
	reviews, err := h.service.Reviews(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(reviews)
}

func (h *Handler) toggleDelivery(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	p, err := h.service.ToggleDelivery(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(p)
}

func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.Respond(c, apperrors.NotFound("provider", c.Params("id")))
	case errors.Is(err, ErrNotOwner):
		return apperrors.Respond(c, apperrors.Forbidden("only the provider owner can change delivery"))
	default:
		return apperrors.Respond(c, apperrors.Internal(err))
	}
}
