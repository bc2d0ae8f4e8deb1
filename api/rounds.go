package api

import (
	"errors"

	"raspadinha/models"
	"raspadinha/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type playRoundRequest struct {
	UserID int64  `json:"user_id"`
	GameID string `json:"game_id"`
}

func roundResultPayload(result *models.RoundResult) fiber.Map {
	return fiber.Map{
		"round_id":        result.RoundID,
		"grid":            result.Grid,
		"won":             result.Won,
		"prize":           result.Prize,
		"prize_brl":       models.FormatBRL(result.Prize),
		"new_balance":     result.NewBalance,
		"new_balance_brl": models.FormatBRL(result.NewBalance),
	}
}

func (s *Server) handlePlayRound(c *fiber.Ctx) error {
	var req playRoundRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}
	if req.UserID == 0 || req.GameID == "" {
		return JSONError(c, fiber.StatusBadRequest, "USER_ID_AND_GAME_ID_REQUIRED")
	}

	result, err := s.games.PlayRound(c.Context(), req.UserID, req.GameID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownGame):
			return JSONError(c, fiber.StatusNotFound, "UNKNOWN_GAME")
		case errors.Is(err, service.ErrInsufficientFunds):
			return JSONError(c, fiber.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS")
		}
		return JSONError(c, fiber.StatusInternalServerError, "ROUND_FAILED")
	}

	return JSONSuccess(c, "Round settled", roundResultPayload(result))
}

func (s *Server) handleSettleRound(c *fiber.Ctx) error {
	roundID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_ROUND_ID")
	}

	result, err := s.games.SettleRound(c.Context(), roundID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			return JSONError(c, fiber.StatusNotFound, "ROUND_NOT_FOUND")
		case errors.Is(err, service.ErrInsufficientFunds):
			return JSONError(c, fiber.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS")
		}
		return JSONError(c, fiber.StatusInternalServerError, "SETTLEMENT_FAILED")
	}

	return JSONSuccess(c, "Round settled", roundResultPayload(result))
}
