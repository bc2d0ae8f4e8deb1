package jobs

import (
	"context"
	"time"

	"raspadinha/database"
	"raspadinha/payment"
	"raspadinha/repository"
	"raspadinha/service"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// Webhooks occasionally get lost; charges younger than the grace period are
// left to the webhook so the poller only sweeps up stragglers.
const (
	confirmationGracePeriod = 2 * time.Minute
	pollBatchSize           = 100
)

// DepositPoller reconciles pending deposits against the payment provider.
// It shares the deposit confirmation gate with the webhook, so both may
// report the same charge without double-crediting anyone.
type DepositPoller struct {
	deposits    *repository.DepositRepository
	provider    payment.Provider
	commissions service.CommissionService
	interval    time.Duration
	scheduler   gocron.Scheduler
}

// NewDepositPoller creates a poller over the shared database pool
func NewDepositPoller(db *database.DB, provider payment.Provider, commissions service.CommissionService, interval time.Duration) *DepositPoller {
	return &DepositPoller{
		deposits:    repository.NewDepositRepository(db),
		provider:    provider,
		commissions: commissions,
		interval:    interval,
	}
}

// Start schedules the reconciliation loop
func (p *DepositPoller) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	p.scheduler = scheduler

	_, err = scheduler.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(func() {
			p.sweep(ctx)
		}),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	log.WithField("interval", p.interval).Info("Deposit poller started")
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish
func (p *DepositPoller) Stop() error {
	if p.scheduler == nil {
		return nil
	}
	return p.scheduler.Shutdown()
}

// sweep queries the provider for every overdue pending charge and feeds
// confirmed ones into the cascade
func (p *DepositPoller) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-confirmationGracePeriod)
	pending, err := p.deposits.ListPending(ctx, cutoff, pollBatchSize)
	if err != nil {
		log.WithError(err).Error("Deposit poller failed to list pending deposits")
		return
	}

	for _, deposit := range pending {
		charge, err := p.provider.GetCharge(ctx, deposit.ID)
		if err != nil {
			log.WithError(err).WithField("depositId", deposit.ID).Warn("Deposit poller failed to query charge")
			continue
		}
		if charge.Status != payment.ChargeStatusPaid {
			continue
		}

		if _, err := p.commissions.OnDepositConfirmed(ctx, deposit.ID, deposit.UserID, deposit.Amount); err != nil {
			log.WithError(err).WithField("depositId", deposit.ID).Error("Deposit poller failed to confirm deposit")
			continue
		}

		log.WithFields(log.Fields{
			"depositId": deposit.ID,
			"userId":    deposit.UserID,
			"amount":    deposit.Amount,
		}).Info("Deposit confirmed by poller")
	}
}
