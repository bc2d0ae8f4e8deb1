package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"raspadinha/api"
	"raspadinha/config"
	"raspadinha/database"
	"raspadinha/events"
	"raspadinha/jobs"
	"raspadinha/payment"
	"raspadinha/repository"
	"raspadinha/scratch"
	"raspadinha/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting raspadinha server...")

	// Load configuration
	cfg := config.Get()

	// Validate the game catalog before anything touches money
	games := scratch.DefaultConfig()
	if err := games.Validate(); err != nil {
		return fmt.Errorf("invalid game catalog: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	generator := scratch.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	gameService := service.NewGameService(uowFactory, games, generator)
	commissionService := service.NewCommissionService(uowFactory)
	withdrawalService := service.NewWithdrawalService(uowFactory)
	accountService := service.NewAccountService(uowFactory)
	referralService := service.NewReferralService(uowFactory)
	depositService := service.NewDepositService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize payment provider client
	provider := payment.NewPixClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey)

	// Start the deposit reconciliation poller
	poller := jobs.NewDepositPoller(db, provider, commissionService, cfg.DepositPollInterval)
	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start deposit poller: %w", err)
	}

	// Initialize HTTP server
	server := api.NewServer(
		gameService,
		accountService,
		commissionService,
		withdrawalService,
		referralService,
		depositService,
		provider,
		cfg.AdminToken,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Listen(cfg.Port)
	}()

	log.Printf("Server is running in %s mode...", cfg.Environment)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if err := poller.Stop(); err != nil {
		log.Printf("Error stopping deposit poller: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
