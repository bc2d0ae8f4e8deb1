package api

import (
	"errors"

	"raspadinha/models"
	"raspadinha/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type requestWithdrawalRequest struct {
	AccountID   int64  `json:"account_id"`
	Amount      int64  `json:"amount"`
	Destination string `json:"destination"`
}

type transitionWithdrawalRequest struct {
	Target models.WithdrawalStatus `json:"target"`
}

func withdrawalPayload(w *models.WithdrawalRequest) fiber.Map {
	return fiber.Map{
		"withdrawal_id": w.ID,
		"account_id":    w.AccountID,
		"amount":        w.Amount,
		"amount_brl":    models.FormatBRL(w.Amount),
		"destination":   w.Destination,
		"status":        w.Status,
		"created_at":    w.CreatedAt,
	}
}

func (s *Server) handleRequestWithdrawal(c *fiber.Ctx) error {
	var req requestWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	request, err := s.withdrawals.Request(c.Context(), req.AccountID, req.Amount, req.Destination)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			return JSONError(c, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND")
		case errors.Is(err, service.ErrInsufficientAvailableBalance):
			return JSONError(c, fiber.StatusUnprocessableEntity, "INSUFFICIENT_AVAILABLE_BALANCE")
		}
		return JSONError(c, fiber.StatusBadRequest, "WITHDRAWAL_REJECTED")
	}

	return JSONSuccess(c, "Withdrawal requested", withdrawalPayload(request))
}

func (s *Server) handleTransitionWithdrawal(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_WITHDRAWAL_ID")
	}

	var req transitionWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	request, err := s.withdrawals.Transition(c.Context(), service.AdminActor(), id, req.Target)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawalNotFound):
			return JSONError(c, fiber.StatusNotFound, "WITHDRAWAL_NOT_FOUND")
		case errors.Is(err, service.ErrInvalidStateTransition):
			return JSONError(c, fiber.StatusConflict, "INVALID_STATE_TRANSITION")
		}
		return JSONError(c, fiber.StatusInternalServerError, "TRANSITION_FAILED")
	}

	return JSONSuccess(c, "Withdrawal transitioned", withdrawalPayload(request))
}
