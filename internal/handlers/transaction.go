package handlers

import (
	"strconv"
	"time"

	"starlive/internal/repositories"
	"starlive/internal/services/reporting"
	"starlive/internal/utils/pagination"
	"starlive/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler exposes the ledger read endpoints.
type TransactionHandler struct {
	reports reporting.Service
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(reports reporting.Service) *TransactionHandler {
	return &TransactionHandler{reports: reports}
}

// List handles GET /transactions with type/status/method/date/amount
// filters. Regular callers only see their own ledger.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	p := pagination.ParseFromRequest(c)
	q := repositories.TransactionQuery{
		Type:              c.Query("type"),
		Status:            c.Query("status"),
		PaymentMethodType: c.Query("payment_method"),
		Limit:             p.Limit,
		Offset:            p.Offset,
	}

	userID := claims.UserID
	if claims.IsAdmin() {
		// Admins may scan the whole ledger or a specific user's.
		if v := c.Query("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return response.BadRequest(c, "invalid user_id")
			}
			userID = uint(id)
		} else {
			userID = 0
		}
	}
	if userID != 0 {
		q.UserID = &userID
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.BadRequest(c, "invalid from date")
		}
		q.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.BadRequest(c, "invalid to date")
		}
		q.To = &t
	}
	if v := c.Query("min_amount"); v != "" {
		a, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return response.BadRequest(c, "invalid min_amount")
		}
		q.MinAmount = &a
	}
	if v := c.Query("max_amount"); v != "" {
		a, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return response.BadRequest(c, "invalid max_amount")
		}
		q.MaxAmount = &a
	}

	txs, total, err := h.reports.ListTransactions(c.Context(), q)
	if err != nil {
		return serviceError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, txs))
}

// Stats handles GET /transactions/stats?period=daily|monthly|yearly.
func (h *TransactionHandler) Stats(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	period := c.Query("period", reporting.PeriodMonthly)
	stats, err := h.reports.GetStats(c.Context(), claims.UserID, period)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "stats", stats)
}
