package handlers

import (
	"errors"

	"starlive/internal/services/limits"
	"starlive/internal/services/reporting"
	"starlive/internal/services/settlement"
	"starlive/internal/services/wallet"
	"starlive/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps ledger service errors to HTTP responses. Typed
// failures surface their message; anything unexpected collapses to a
// generic 500 after the unit of work has already rolled back.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, settlement.ErrInvalidAmount),
		errors.Is(err, settlement.ErrCurrencyMismatch),
		errors.Is(err, settlement.ErrSelfTransfer),
		errors.Is(err, settlement.ErrInvalidAction),
		errors.Is(err, reporting.ErrInvalidPeriod):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, settlement.ErrWalletNotFound),
		errors.Is(err, settlement.ErrRecipientNotFound),
		errors.Is(err, settlement.ErrTransactionNotFound),
		errors.Is(err, wallet.ErrWalletNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, settlement.ErrInvalidState),
		errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, limits.ErrBelowMinimum),
		errors.Is(err, limits.ErrAboveMaximum),
		errors.Is(err, limits.ErrInsufficientAvailableBalance),
		errors.Is(err, limits.ErrDailyLimitExceeded),
		errors.Is(err, limits.ErrMonthlyLimitExceeded):
		return response.Conflict(c, err.Error())

	case errors.Is(err, limits.ErrWalletLocked):
		return response.Forbidden(c, err.Error())
	}

	return response.ServerError(c, "internal error")
}
