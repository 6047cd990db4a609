package points

import (
	"errors"
	"strconv"

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
	app.Get("/api/v1/kunapuntos", h.getSummary)
	app.Get("/api/v1/kunapuntos/rewards", h.getRewards)
	app.Post("/api/v1/kunapuntos/redeem", h.redeem)
}

type redeemRequest struct {
	RewardID int `json:"rewardId" validate:"required,min=1"`
}

func (h *Handler) getSummary(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	summary, err := h.service.Summary(c.UserContext(), userID)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(summary)
}

func (h *Handler) getRewards(c *fiber.Ctx) error {
	rewards, err := h.service.Rewards(c.UserContext())
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(rewards)
}

func (h *Handler) redeem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(redeemRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return apperrors.Respond(c, err)
	}

	entry, err := h.service.Redeem(c.UserContext(), userID, payload.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRewardNotFound):
			return apperrors.Respond(c, apperrors.NotFound("reward", strconv.Itoa(payload.RewardID)))
		case errors.Is(err, ErrInsufficientPoints):
			return apperrors.Respond(c, apperrors.Conflict("not enough points for this reward"))
		default:
			return apperrors.Respond(c, apperrors.Internal(err))
		}
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
