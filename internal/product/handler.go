package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/products/:id", h.getProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	f := Filter{
		Category: c.Query("category"),
		Trending: c.QueryBool("trending"),
		Featured: c.QueryBool("featured"),
		Limit:    c.QueryInt("limit", 100),
	}
	products, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.Respond(c, apperrors.NotFound("product", c.Params("id")))
		}
		return apperrors.Respond(c, apperrors.Internal(err))
	}
	return c.JSON(fiber.Map{"product": p, "finalPrice": p.EffectivePrice()})
}
