package api

import (
	"raspadinha/payment"
	"raspadinha/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Server wires the HTTP surface over the service layer
type Server struct {
	app         *fiber.App
	games       service.GameService
	accounts    service.AccountService
	commissions service.CommissionService
	withdrawals service.WithdrawalService
	referrals   service.ReferralService
	deposits    service.DepositService
	provider    payment.Provider
	adminToken  string
}

// NewServer creates the HTTP server and registers all routes
func NewServer(
	games service.GameService,
	accounts service.AccountService,
	commissions service.CommissionService,
	withdrawals service.WithdrawalService,
	referrals service.ReferralService,
	deposits service.DepositService,
	provider payment.Provider,
	adminToken string,
) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		games:       games,
		accounts:    accounts,
		commissions: commissions,
		withdrawals: withdrawals,
		referrals:   referrals,
		deposits:    deposits,
		provider:    provider,
		adminToken:  adminToken,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	// Player surface
	api.Post("/rounds", s.handlePlayRound)
	api.Post("/rounds/:id/settle", s.handleSettleRound)
	api.Post("/deposits", s.handleCreateDeposit)
	api.Post("/withdrawals", s.handleRequestWithdrawal)
	api.Get("/accounts/:id/summary", s.handleAccountSummary)
	api.Post("/referrals/bind", s.handleBindPlayer)

	// Provider callbacks
	api.Post("/webhooks/payment", s.handlePaymentWebhook)

	// Admin surface
	admin := api.Group("/admin", AdminAuth(s.adminToken))
	admin.Post("/withdrawals/:id/transition", s.handleTransitionWithdrawal)
	admin.Post("/referrals/tiers", s.handleGrantTier)
	admin.Delete("/referrals/tiers/:id", s.handleDeactivateTier)
}

// Listen blocks serving HTTP on the given port
func (s *Server) Listen(port string) error {
	log.WithField("port", port).Info("HTTP server listening")
	return s.app.Listen(":" + port)
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
