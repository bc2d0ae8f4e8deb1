package api

import (
	"errors"
	"strconv"

	"raspadinha/models"
	"raspadinha/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleAccountSummary(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_ACCOUNT_ID")
	}

	summary, err := s.accounts.Summary(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return JSONError(c, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND")
		}
		return JSONError(c, fiber.StatusInternalServerError, "SUMMARY_FAILED")
	}

	return JSONSuccess(c, "Summary retrieved", fiber.Map{
		"account_id":          summary.AccountID,
		"earned":              summary.Earned,
		"earned_brl":          models.FormatBRL(summary.Earned),
		"paid":                summary.Paid,
		"paid_brl":            models.FormatBRL(summary.Paid),
		"available":           summary.Available,
		"available_brl":       models.FormatBRL(summary.Available),
		"pending_commissions": summary.PendingCommissions,
	})
}
