package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

// Handler exposes wallet read endpoints for operators.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Balance returns the named wallet's balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	name := c.Params("name")
	balance, err := h.service.Balance(c.UserContext(), name)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "balance lookup failed")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"wallet":    balance.Wallet,
		"balance":   balance.Amount,
		"timestamp": balance.AsOf,
	})
}

type transactionResponse struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
}

// Transactions returns the wallet's transaction history.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	name := c.Params("name")
	entries, err := h.service.Transactions(c.UserContext(), name)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "transaction lookup failed")
	}

	out := make([]transactionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, transactionResponse{
			ID:        e.ID,
			Amount:    e.Amount,
			Type:      e.Type,
			Code:      e.Code,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"wallet":       name,
		"transactions": out,
	})
}
