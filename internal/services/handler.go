package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/services", h.getServices)
	app.Get("/api/v1/services/:id", h.getService)
	app.Get("/api/v1/providers/:id/services", h.getProviderServices)
}

func (h *Handler) getServices(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext(), c.Query("category"), c.QueryInt("limit", 100))
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			return apperrors.Respond(c, apperrors.InvalidInput(err.Error()))
		}
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(list)
}

func (h *Handler) getService(c *fiber.Ctx) error {
	s, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.Respond(c, apperrors.NotFound("service", c.Params("id")))
		}
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(s)
}

func (h *Handler) getProviderServices(c *fiber.Ctx) error {
	list, err := h.service.ForProvider(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(list)
}
