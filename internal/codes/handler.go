package codes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

// Handler exposes code issuing endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a code HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Amount int64 `json:"amount"`
}

type codeResponse struct {
	Code      string `json:"code"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Create issues a code owned by the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Amount <= 0 {
		return fiber.NewError(http.StatusBadRequest, "valid amount required")
	}

	ownerID, _ := c.Locals("user_id").(string)
	if ownerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	code, err := h.service.Create(c.UserContext(), ownerID, req.Amount)
	if err != nil {
		if errors.Is(err, ledger.ErrCodeCollision) {
			return fiber.NewError(http.StatusConflict, "code collision, retry")
		}
		return fiber.NewError(http.StatusInternalServerError, "create code failed")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "code_created",
		"data": codeResponse{
			Code:      code.Code,
			Amount:    code.Amount,
			Status:    code.Status,
			CreatedAt: code.CreatedAt.Format(time.RFC3339),
		},
	})
}

// Get returns code details to its owner.
func (h *Handler) Get(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)
	code, err := h.service.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		if errors.Is(err, ledger.ErrCodeNotFound) {
			return fiber.NewError(http.StatusNotFound, "code not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "lookup failed")
	}
	if code.OwnerID != ownerID {
		return fiber.NewError(http.StatusNotFound, "code not found")
	}

	return c.Status(http.StatusOK).JSON(codeResponse{
		Code:      code.Code,
		Amount:    code.Amount,
		Status:    code.Status,
		CreatedAt: code.CreatedAt.Format(time.RFC3339),
	})
}
