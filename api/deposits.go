package api

import (
	"raspadinha/models"
	"raspadinha/payment"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type createDepositRequest struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"` // centavos
}

type paymentWebhookRequest struct {
	DepositID   string `json:"deposit_id"`
	PayerUserID int64  `json:"payer_user_id"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
}

func (s *Server) handleCreateDeposit(c *fiber.Ctx) error {
	var req createDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}
	if req.UserID == 0 || req.Amount <= 0 {
		return JSONError(c, fiber.StatusBadRequest, "USER_ID_AND_AMOUNT_REQUIRED")
	}

	charge, err := s.provider.CreateCharge(c.Context(), req.UserID, req.Amount)
	if err != nil {
		log.WithError(err).Error("Failed to create PIX charge")
		return JSONError(c, fiber.StatusBadGateway, "PROVIDER_UNAVAILABLE")
	}

	if _, err := s.deposits.Track(c.Context(), charge.ID, req.UserID, req.Amount); err != nil {
		return JSONError(c, fiber.StatusInternalServerError, "DEPOSIT_TRACKING_FAILED")
	}

	return JSONSuccess(c, "Charge created", fiber.Map{
		"deposit_id": charge.ID,
		"amount":     req.Amount,
		"amount_brl": models.FormatBRL(req.Amount),
		"qr_code":    charge.QRCode,
	})
}

// handlePaymentWebhook receives provider notifications. Only transitions
// into paid run the cascade; the deposit gate absorbs duplicates, so the
// provider may deliver the same notification any number of times.
func (s *Server) handlePaymentWebhook(c *fiber.Ctx) error {
	var req paymentWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}
	if req.DepositID == "" {
		return JSONError(c, fiber.StatusBadRequest, "DEPOSIT_ID_REQUIRED")
	}

	if payment.ChargeStatus(req.Status) != payment.ChargeStatusPaid {
		// Nothing to do for pending or failed notifications
		return JSONSuccess(c, "Notification acknowledged", nil)
	}

	records, err := s.commissions.OnDepositConfirmed(c.Context(), req.DepositID, req.PayerUserID, req.Amount)
	if err != nil {
		log.WithError(err).WithField("depositId", req.DepositID).Error("Deposit confirmation failed")
		return JSONError(c, fiber.StatusInternalServerError, "CONFIRMATION_FAILED")
	}

	return JSONSuccess(c, "Deposit confirmed", fiber.Map{
		"deposit_id":  req.DepositID,
		"commissions": records,
	})
}
