package handlers

import (
	"starlive/internal/models"
	"starlive/internal/services/wallet"
	"starlive/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes wallet view and settings endpoints.
type WalletHandler struct {
	wallets wallet.Service
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets wallet.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// extractUserClaims is a helper shared by the ledger handlers.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// GetWallet handles GET /wallet, creating the wallet on first access.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	w, err := h.wallets.GetOrCreate(c.Context(), claims.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "wallet", w)
}

// UpdateSettings handles PATCH /wallet/settings.
func (h *WalletHandler) UpdateSettings(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		WithdrawalSettings   *models.WithdrawalSettings `json:"withdrawal_settings"`
		DailyWithdrawLimit   *int64                     `json:"daily_withdraw_limit"`
		MonthlyWithdrawLimit *int64                     `json:"monthly_withdraw_limit"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, err := h.wallets.UpdateSettings(c.Context(), claims.UserID, wallet.SettingsUpdate{
		WithdrawalSettings:   input.WithdrawalSettings,
		DailyWithdrawLimit:   input.DailyWithdrawLimit,
		MonthlyWithdrawLimit: input.MonthlyWithdrawLimit,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "settings updated", w)
}
