package product

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRoutes(t *testing.T) {
	repo := NewInMemoryRepository([]Product{
		{ID: "p1", Name: "Shampoo", Category: "hygiene", Price: decimal.NewFromInt(20), DiscountPercentage: 10},
	})
	app := fiber.New()
	NewHandler(NewService(repo)).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products?category=hygiene", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var list []Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	assert.Len(t, list, 1)

	res, err = app.Test(httptest.NewRequest("GET", "/api/v1/products/p1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var detail struct {
		Product    Product         `json:"product"`
		FinalPrice decimal.Decimal `json:"finalPrice"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&detail))
	assert.Equal(t, "18", detail.FinalPrice.String())

	res, err = app.Test(httptest.NewRequest("GET", "/api/v1/products/zzz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
