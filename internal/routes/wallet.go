package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tembo-pay/tembo_pay/internal/wallet"
)

// RegisterWalletRoutes wires operator-facing wallet read endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallets/:name/balance", h.Balance)
	r.Get("/wallets/:name/transactions", h.Transactions)
}
