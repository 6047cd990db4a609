package cart

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
	"github.com/wichananm65/kunapet-backend/internal/product"
	"github.com/wichananm65/kunapet-backend/internal/user"
	"github.com/wichananm65/kunapet-backend/internal/validate"
)

// Catalog resolves the attributes of an item being added.
type Catalog interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
	catalog Catalog
}

func NewHandler(s *Service, catalog Catalog) *Handler {
	return &Handler{service: s, catalog: catalog}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Patch("/api/v1/cart/items/:id", h.updateQuantity)
	app.Delete("/api/v1/cart/items/:id", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

// Response is the JSON shape of a cart.
type Response struct {
	Items     []Line `json:"items"`
	ItemCount int    `json:"itemCount"`
	Totals    Totals `json:"totals"`
}

func NewResponse(c *Cart) Response {
	return Response{Items: c.Lines(), ItemCount: c.ItemCount(), Totals: c.Totals()}
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}

	cart, err := h.service.Get(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(NewResponse(cart))
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	payload := new(addItemRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return apperrors.Respond(c, err)
	}

	p, err := h.catalog.GetByID(c.UserContext(), payload.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return apperrors.Respond(c, apperrors.NotFound("product", payload.ProductID))
		}
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	if p.Stock <= 0 {
		return apperrors.Respond(c, apperrors.Conflict("product is out of stock"))
	}

	cart, err := h.service.AddItem(c.UserContext(), userID, Item{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.EffectivePrice(),
		Image:     p.MainPhoto(),
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(NewResponse(cart))
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}
	payload := new(updateQuantityRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return apperrors.Respond(c, err)
	}

	cart, err := h.service.UpdateQuantity(c.UserContext(), userID, c.Params("id"), payload.Delta)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(NewResponse(cart))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}

	cart, err := h.service.RemoveItem(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(NewResponse(cart))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return apperrors.Respond(c, apperrors.Unauthorized("unauthorized"))
	}

	if err := h.service.Clear(c.UserContext(), userID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(NewResponse(New()))
}

func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.Respond(c, apperrors.NotFound("user", "cart"))
	case errors.Is(err, ErrInvalidItem):
		return apperrors.Respond(c, apperrors.InvalidInput(err.Error()))
	case errors.Is(err, ErrCheckoutInProgress):
		return apperrors.Respond(c, apperrors.Conflict("cart is locked until the checkout finishes"))
	default:
		return apperrors.Respond(c, apperrors.Internal(err))
	}
}
