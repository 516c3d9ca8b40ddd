package handlers

import (
	"starlive/internal/models"
	"starlive/internal/services/settlement"
	"starlive/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// SettlementHandler exposes the money-movement endpoints.
type SettlementHandler struct {
	service settlement.Service
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(s settlement.Service) *SettlementHandler {
	return &SettlementHandler{service: s}
}

// Deposit handles POST /wallet/deposit.
func (h *SettlementHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Amount            int64                `json:"amount"`
		Currency          string               `json:"currency"`
		PaymentMethodType string               `json:"payment_method_type"`
		PaymentMethod     models.PaymentMethod `json:"payment_method"`
		Description       string               `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	result, err := h.service.Deposit(c.Context(), settlement.DepositRequest{
		UserID:            claims.UserID,
		Amount:            input.Amount,
		Currency:          input.Currency,
		PaymentMethodType: input.PaymentMethodType,
		PaymentMethod:     input.PaymentMethod,
		Description:       input.Description,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "deposit created", fiber.Map{
		"transaction": result.Transaction,
		"wallet":      result.Wallet,
	})
}

// Withdraw handles POST /wallet/withdraw.
func (h *SettlementHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Amount            int64                `json:"amount"`
		PaymentMethodType string               `json:"payment_method_type"`
		PaymentMethod     models.PaymentMethod `json:"payment_method"`
		Description       string               `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	result, err := h.service.Withdraw(c.Context(), settlement.WithdrawRequest{
		UserID:            claims.UserID,
		Amount:            input.Amount,
		PaymentMethodType: input.PaymentMethodType,
		PaymentMethod:     input.PaymentMethod,
		Description:       input.Description,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "withdrawal requested", fiber.Map{
		"transaction": result.Transaction,
		"wallet":      result.Wallet,
	})
}

// Transfer handles POST /wallet/transfer.
func (h *SettlementHandler) Transfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		ToUserID    uint   `json:"to_user_id"`
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	result, err := h.service.Transfer(c.Context(), settlement.TransferRequest{
		FromUserID:  claims.UserID,
		ToUserID:    input.ToUserID,
		Amount:      input.Amount,
		Description: input.Description,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "transfer completed", fiber.Map{
		"transaction": result.Transaction,
		"wallet":      result.Wallet,
	})
}
