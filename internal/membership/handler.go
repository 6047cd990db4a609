package membership

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
	"github.com/wichananm65/kunapet-backend/internal/user"
	"github.com/wichananm65/kunapet-backend/internal/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/membership", h.getMembership)
	app.Get("/api/v1/membership/plans", h.getPlans)
	app.Post("/api/v1/membership/upgrade", h.upgrade)
}

type upgradeRequest struct {
	Plan string `json:"plan" validate:"required,oneof=monthly annual"`
}

func (h *Handler) getMembership(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	m, err := h.service.Current(c.UserContext(), userID)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(m)
}

func (h *Handler) getPlans(c *fiber.Ctx) error {
	return c.JSON(Plans)
}

func (h *Handler) upgrade(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(upgradeRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return apperrors.Respond(c, err)
	}
	m, err := h.service.Upgrade(c.UserContext(), userID, payload.Plan)
	if err != nil {
		if errors.Is(err, ErrInvalidPlan) {
			return apperrors.Respond(c, apperrors.InvalidInput(err.Error()))
		}
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(m)
}
