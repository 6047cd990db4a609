package cart

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wichananm65/kunapet-backend/internal/product"
)

// makeApp injects a jwt.Token into locals when X-User-ID is set, standing in
// for the real jwt middleware.
func makeApp() *fiber.App {
	return makeAppWith(NewService(NewInMemoryRepository(), zap.NewNop()))
}

func makeAppWith(svc *Service) *fiber.App {
	photo := "/img/kibble.png"
	catalog := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: "kibble", Name: "Kibble 3kg", Price: decimal.NewFromInt(40), DiscountPercentage: 25, Stock: 5, Photos: []string{photo}},
		{ID: "leash", Name: "Leash", Price: decimal.RequireFromString("15.50"), Stock: 2},
		{ID: "bed", Name: "Bed", Price: decimal.NewFromInt(80), Stock: 0},
	}))
	handler := NewHandler(svc, catalog)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	})
	handler.RegisterProtectedRoutes(app)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out Response
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

func TestCartRoutes(t *testing.T) {
	app := makeApp()

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{"GET /api/v1/cart", "POST /api/v1/cart/items", "PATCH /api/v1/cart/items/:id", "DELETE /api/v1/cart/items/:id", "DELETE /api/v1/cart"} {
		assert.True(t, routes[want], "expected route %s", want)
	}

	status, body := call(t, app, "POST", "/api/v1/cart/items", `{"productId":"kibble"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "30", body.Items[0].UnitPrice.String(), "discounted price")
	require.NotNil(t, body.Items[0].Image)

	_, _ = call(t, app, "POST", "/api/v1/cart/items", `{"productId":"leash"}`)
	status, body = call(t, app, "PATCH", "/api/v1/cart/items/leash", `{"delta":1}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 3, body.ItemCount)
	assert.Equal(t, "61", body.Totals.Subtotal.String())
	assert.True(t, body.Totals.Shipping.IsZero())

	status, body = call(t, app, "DELETE", "/api/v1/cart/items/kibble", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "31", body.Totals.Subtotal.String())
	assert.Equal(t, "41", body.Totals.Total.String())

	status, body = call(t, app, "DELETE", "/api/v1/cart", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body.Items)

	status, body = call(t, app, "GET", "/api/v1/cart", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0, body.ItemCount)
}

func TestCartAddItemErrors(t *testing.T) {
	app := makeApp()

	status, _ := call(t, app, "POST", "/api/v1/cart/items", `{"productId":"ghost"}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "POST", "/api/v1/cart/items", `{"productId":"bed"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, "POST", "/api/v1/cart/items", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "PATCH", "/api/v1/cart/items/kibble", `{"delta":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCartRequiresUser(t *testing.T) {
	app := makeApp()
	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestCartLockedDuringCheckout(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), zap.NewNop())
	app := makeAppWith(svc)

	status, _ := call(t, app, "POST", "/api/v1/cart/items", `{"productId":"leash"}`)
	require.Equal(t, fiber.StatusOK, status)

	_, err := svc.Hold(context.Background(), 1)
	require.NoError(t, err)

	status, _ = call(t, app, "POST", "/api/v1/cart/items", `{"productId":"kibble"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	status, _ = call(t, app, "DELETE", "/api/v1/cart", "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, body := call(t, app, "GET", "/api/v1/cart", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, body.ItemCount)
}
