package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kunapet_cart_operations_total",
			Help: "Cart mutations by operation.",
		},
		[]string{"op"},
	)

	CheckoutTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kunapet_checkout_transitions_total",
			Help: "Checkout sequencer events by outcome.",
		},
		[]string{"event", "result"},
	)

	PaymentAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kunapet_payment_attempts_total",
			Help: "Calls made to the payment gateway by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(CartOperations, CheckoutTransitions, PaymentAttempts)
}

// Result labels a transition outcome.
func Result(err error) string {
	if err != nil {
		return "rejected"
	}
	return "ok"
}

// RegisterRoutes exposes the default registry at /metrics.
func RegisterRoutes(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
