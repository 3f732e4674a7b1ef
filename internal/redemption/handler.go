package redemption

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

// Handler exposes the redemption endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a redemption handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type redeemRequest struct {
	Code string `json:"code"`
}

// Redeem settles a code and reports the redeemed amount. Error responses map
// each failure kind to a fixed message; raw store detail stays internal.
func (h *Handler) Redeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Code == "" {
		return fiber.NewError(http.StatusBadRequest, "code is required")
	}

	res, err := h.service.Redeem(c.UserContext(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrCodeNotFound):
			return fiber.NewError(http.StatusNotFound, "code not found")
		case errors.Is(err, ledger.ErrCodeAlreadyUsed):
			return fiber.NewError(http.StatusConflict, "code already used")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return fiber.NewError(http.StatusConflict, "insufficient funds")
		case errors.Is(err, ledger.ErrStoreTransient):
			return fiber.NewError(http.StatusServiceUnavailable, "temporarily unavailable, retry")
		default:
			return fiber.NewError(http.StatusInternalServerError, "redeem failed")
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":      "redeemed",
		"code":        res.Code,
		"amount":      res.Amount,
		"redeemed_at": res.RedeemedAt,
	})
}
