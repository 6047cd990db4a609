package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
	"github.com/wichananm65/kunapet-backend/internal/cart"
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
	app.Get("/api/v1/checkout", h.getCheckout)
	app.Post("/api/v1/checkout/proceed", h.proceed)
	app.Post("/api/v1/checkout/back", h.back)
	app.Post("/api/v1/checkout/security", h.security)
	app.Post("/api/v1/checkout/payment-method", h.selectMethod)
	app.Post("/api/v1/checkout/confirm", h.confirm)
	app.Post("/api/v1/checkout/home", h.goHome)
	app.Post("/api/v1/checkout/provider", h.selectProvider)
}

type paymentMethodRequest struct {
	Method    string `json:"method" validate:"required"`
	Reference string `json:"reference" validate:"max=64"`
}

type confirmRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference" validate:"max=64"`
}

type providerRequest struct {
	ProviderID string `json:"providerId"`
	ServiceID  string `json:"serviceId"`
}

func (h *Handler) getCheckout(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	return respond(c)(h.service.View(c.UserContext(), userID))
}

func (h *Handler) proceed(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	return respond(c)(h.service.Proceed(c.UserContext(), userID))
}

func (h *Handler) back(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	return respond(c)(h.service.Back(c.UserContext(), userID))
}

func (h *Handler) security(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	return respond(c)(h.service.ViewSecurity(c.UserContext(), userID))
}

func (h *Handler) selectMethod(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	payload := new(paymentMethodRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return apperrors.Respond(c, err)
	}
	sel, err := NewSelection(payload.Method, payload.Reference)
	if err != nil {
		return mapErr(c, err)
	}
	return respond(c)(h.service.SelectMethod(c.UserContext(), userID, sel))
}

func (h *Handler) confirm(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	payload := new(confirmRequest)
	if len(c.Body()) > 0 {
		if err := validate.ParseBody(c, payload); err != nil {
			return apperrors.Respond(c, err)
		}
	}
	var sel *PaymentSelection
	if payload.Method != "" {
		s, err := NewSelection(payload.Method, payload.Reference)
		if err != nil {
			return mapErr(c, err)
		}
		sel = &s
	}
	return respond(c)(h.service.Confirm(c.UserContext(), userID, sel))
}

func (h *Handler) goHome(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	return respond(c)(h.service.GoHome(c.UserContext(), userID))
}

func (h *Handler) selectProvider(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	payload := new(providerRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return apperrors.Respond(c, err)
	}
	sc := SelectionContext{ProviderID: payload.ProviderID, ServiceID: payload.ServiceID}
	return respond(c)(h.service.SelectProvider(c.UserContext(), userID, sc))
}

func respond(c *fiber.Ctx) func(View, error) error {
	return func(v View, err error) error {
		if err != nil {
			return mapErr(c, err)
		}
		return c.JSON(v)
	}
}

func mapErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return apperrors.Respond(c, apperrors.Conflict("cart is empty"))
	case errors.Is(err, ErrPaymentInProgress):
		return apperrors.Respond(c, apperrors.Conflict("payment is already being processed"))
	case errors.Is(err, ErrInvalidTransition):
		return apperrors.Respond(c, apperrors.Conflict("action not available on this screen"))
	case errors.Is(err, ErrInvalidMethod):
		return apperrors.Respond(c, apperrors.InvalidInput("method must be one of card, yape, plin, transfer, cash"))
	case errors.Is(err, ErrNoPaymentMethod):
		return apperrors.Respond(c, apperrors.InvalidInput("select a payment method first"))
	case errors.Is(err, ErrPaymentDeclined):
		return apperrors.Respond(c, apperrors.PaymentDeclined("payment was declined"))
	case errors.Is(err, ErrGatewayUnavailable):
		return apperrors.Respond(c, apperrors.Unavailable("payment service is unavailable, try again"))
	case errors.Is(err, ErrUnknownProvider):
		return apperrors.Respond(c, apperrors.NotFound("provider", "selection"))
	case errors.Is(err, ErrUnknownService):
		return apperrors.Respond(c, apperrors.NotFound("service", "selection"))
	case errors.Is(err, ErrServiceMismatch):
		return apperrors.Respond(c, apperrors.InvalidInput(err.Error()))
	case errors.Is(err, cart.ErrNotFound):
		return apperrors.Respond(c, apperrors.NotFound("user", "cart"))
	default:
		return apperrors.Respond(c, apperrors.Internal(err))
	}
}
