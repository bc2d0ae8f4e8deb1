package api

import (
	"errors"
	"strconv"

	"raspadinha/models"
	"raspadinha/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type grantTierRequest struct {
	UserID         int64           `json:"user_id"`
	Role           string          `json:"role"`
	ParentID       *int64          `json:"parent_id"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

type bindPlayerRequest struct {
	UserID int64 `json:"user_id"`
	TierID int64 `json:"tier_id"`
}

func (s *Server) handleGrantTier(c *fiber.Ctx) error {
	var req grantTierRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	role := models.AccountRole(req.Role)
	if !role.IsTier() {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_TIER_ROLE")
	}

	tier, err := s.referrals.GrantTier(c.Context(), service.AdminActor(), req.UserID, role, req.ParentID, req.CommissionRate)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return JSONError(c, fiber.StatusForbidden, "FORBIDDEN")
		}
		return JSONError(c, fiber.StatusBadRequest, "TIER_GRANT_REJECTED")
	}

	return JSONSuccess(c, "Tier granted", fiber.Map{
		"tier_id":         tier.ID,
		"user_id":         tier.UserID,
		"account_id":      tier.AccountID,
		"role":            tier.Role,
		"parent_id":       tier.ParentID,
		"commission_rate": tier.CommissionRate,
	})
}

func (s *Server) handleBindPlayer(c *fiber.Ctx) error {
	var req bindPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}
	if req.UserID == 0 || req.TierID == 0 {
		return JSONError(c, fiber.StatusBadRequest, "USER_ID_AND_TIER_ID_REQUIRED")
	}

	if err := s.referrals.BindPlayer(c.Context(), req.UserID, req.TierID); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "BINDING_REJECTED")
	}

	return JSONSuccess(c, "Player bound", fiber.Map{
		"user_id": req.UserID,
		"tier_id": req.TierID,
	})
}

func (s *Server) handleDeactivateTier(c *fiber.Ctx) error {
	tierID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, "INVALID_TIER_ID")
	}

	if err := s.referrals.DeactivateTier(c.Context(), service.AdminActor(), tierID); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return JSONError(c, fiber.StatusForbidden, "FORBIDDEN")
		}
		return JSONError(c, fiber.StatusBadRequest, "DEACTIVATION_REJECTED")
	}

	return JSONSuccess(c, "Tier deactivated", fiber.Map{"tier_id": tierID})
}
