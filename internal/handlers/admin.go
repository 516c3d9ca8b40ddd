package handlers

import (
	"strconv"

	"starlive/internal/services/reporting"
	"starlive/internal/services/settlement"
	"starlive/internal/utils/pagination"
	"starlive/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes moderation and revenue endpoints. Routes are gated
// by the AdminOnly middleware.
type AdminHandler struct {
	service settlement.Service
	reports reporting.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service settlement.Service, reports reporting.Service) *AdminHandler {
	return &AdminHandler{service: service, reports: reports}
}

// Moderate handles POST /admin/transactions/:id/moderate.
func (h *AdminHandler) Moderate(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid transaction id")
	}

	var input struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	tx, err := h.service.Moderate(c.Context(), settlement.ModerateRequest{
		TransactionID: uint(id),
		Action:        input.Action,
		Reason:        input.Reason,
		ActorID:       claims.UserID,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "transaction moderated", tx)
}

// PendingQueue handles GET /admin/transactions/pending.
func (h *AdminHandler) PendingQueue(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	txs, total, err := h.reports.PendingQueue(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return serviceError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, txs))
}

// Revenue handles GET /admin/revenue?period=daily|monthly|yearly.
func (h *AdminHandler) Revenue(c *fiber.Ctx) error {
	period := c.Query("period", reporting.PeriodMonthly)
	periods, _ := strconv.Atoi(c.Query("periods", "12"))

	rows, err := h.reports.RevenueByPeriod(c.Context(), period, periods)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "revenue", rows)
}
