package events

import (
	"context"
	"sync"

	"raspadinha/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRoundSettled           EventType = "round_settled"
	EventTypeDepositConfirmed       EventType = "deposit_confirmed"
	EventTypeCommissionEarned       EventType = "commission_earned"
	EventTypeWithdrawalStateChanged EventType = "withdrawal_state_changed"
	EventTypeAccountCreated         EventType = "account_created"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RoundSettledEvent fires once a round's stake (and prize) have been applied
type RoundSettledEvent struct {
	RoundID    string
	UserID     int64
	Stake      int64
	Won        bool
	Prize      int64
	NewBalance int64
}

func (e RoundSettledEvent) Type() EventType {
	return EventTypeRoundSettled
}

// DepositConfirmedEvent fires when a PIX charge transitions into confirmed
type DepositConfirmedEvent struct {
	DepositID string
	UserID    int64
	Amount    int64
}

func (e DepositConfirmedEvent) Type() EventType {
	return EventTypeDepositConfirmed
}

// CommissionEarnedEvent fires per tier credited by a deposit cascade
type CommissionEarnedEvent struct {
	DepositID string
	AccountID int64
	Role      models.AccountRole
	Amount    int64
}

func (e CommissionEarnedEvent) Type() EventType {
	return EventTypeCommissionEarned
}

// WithdrawalStateChangedEvent fires on every withdrawal transition
type WithdrawalStateChangedEvent struct {
	WithdrawalID string
	AccountID    int64
	OldStatus    models.WithdrawalStatus
	NewStatus    models.WithdrawalStatus
	Amount       int64
}

func (e WithdrawalStateChangedEvent) Type() EventType {
	return EventTypeWithdrawalStateChanged
}

// AccountCreatedEvent fires when a wallet or tier account is created
type AccountCreatedEvent struct {
	AccountID int64
	UserID    int64
	Role      models.AccountRole
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events raised inside a unit of work and flushes
// them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a transactional bus over the main bus
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until the surrounding transaction commits
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after a successful commit.
// Emission uses a background context so handlers outlive the transaction.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
