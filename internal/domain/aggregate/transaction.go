package aggregate

import (
	"fmt"
	"time"

	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/role"

	"github.com/google/uuid"
)

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// TransactionType distinguishes how a payment is settled
type TransactionType string

const (
	TransactionTypeCash      TransactionType = "cash"
	TransactionTypePointCard TransactionType = "pointCard"
)

// Transaction records a payment between a customer and a merchant. Once
// settled (confirmed or cancelled) it never changes again; the only legal
// edges are pending→confirmed and pending→cancelled.
type Transaction struct {
	id                string
	organizationID    string
	eventID           string
	merchantID        string
	customerUserID    string
	amount            int64
	transactionType   TransactionType
	pointCardID       string
	status            TransactionStatus
	statusHistory     []event.StatusChange
	createdAt         time.Time
	updatedAt         time.Time
	uncommittedEvents []event.DomainEvent
}

// NewTransaction creates a pending transaction
func NewTransaction(orgID, eventID, merchantID, customerUserID string, amount int64, txType TransactionType, pointCardID string) (*Transaction, error) {
	if orgID == "" || eventID == "" {
		return nil, fmt.Errorf("organization and event ids cannot be empty")
	}
	if merchantID == "" {
		return nil, fmt.Errorf("merchant id cannot be empty")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}
	if txType == TransactionTypePointCard && pointCardID == "" {
		return nil, fmt.Errorf("point card id is required for point card transactions")
	}
	now := time.Now()
	return &Transaction{
		id:              uuid.New().String(),
		organizationID:  orgID,
		eventID:         eventID,
		merchantID:      merchantID,
		customerUserID:  customerUserID,
		amount:          amount,
		transactionType: txType,
		pointCardID:     pointCardID,
		status:          TransactionStatusPending,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// TransactionState is the persisted shape of a transaction
type TransactionState struct {
	ID              string
	OrganizationID  string
	EventID         string
	MerchantID      string
	CustomerUserID  string
	Amount          int64
	TransactionType string
	PointCardID     string
	Status          string
	StatusHistory   []event.StatusChange
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RehydrateTransaction rebuilds a transaction from its stored state
func RehydrateTransaction(state TransactionState) (*Transaction, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("transaction id cannot be empty")
	}
	return &Transaction{
		id:              state.ID,
		organizationID:  state.OrganizationID,
		eventID:         state.EventID,
		merchantID:      state.MerchantID,
		customerUserID:  state.CustomerUserID,
		amount:          state.Amount,
		transactionType: TransactionType(state.TransactionType),
		pointCardID:     state.PointCardID,
		status:          TransactionStatus(state.Status),
		statusHistory:   state.StatusHistory,
		createdAt:       state.CreatedAt,
		updatedAt:       state.UpdatedAt,
	}, nil
}

func (t *Transaction) ID() string                   { return t.id }
func (t *Transaction) OrganizationID() string       { return t.organizationID }
func (t *Transaction) EventID() string              { return t.eventID }
func (t *Transaction) MerchantID() string           { return t.merchantID }
func (t *Transaction) CustomerUserID() string       { return t.customerUserID }
func (t *Transaction) Amount() int64                { return t.amount }
func (t *Transaction) Type() TransactionType        { return t.transactionType }
func (t *Transaction) PointCardID() string          { return t.pointCardID }
func (t *Transaction) Status() TransactionStatus    { return t.status }
func (t *Transaction) UpdatedAt() time.Time         { return t.updatedAt }

// StatusHistory returns the append-only status log
func (t *Transaction) StatusHistory() []event.StatusChange {
	out := make([]event.StatusChange, len(t.statusHistory))
	copy(out, t.statusHistory)
	return out
}

// Confirm moves a pending transaction to confirmed
func (t *Transaction) Confirm(actorID string, actingRole role.Role) error {
	if t.status != TransactionStatusPending {
		return fmt.Errorf("status must be pending, was %s", t.status)
	}
	now := time.Now()
	t.appendHistory(string(TransactionStatusConfirmed), actorID, actingRole, "", now)
	t.status = TransactionStatusConfirmed
	t.updatedAt = now

	t.raiseEvent(&event.TransactionConfirmed{
		TransactionID:   t.id,
		OrganizationID:  t.organizationID,
		EventID:         t.eventID,
		MerchantID:      t.merchantID,
		CustomerID:      t.customerUserID,
		Amount:          t.amount,
		TransactionType: string(t.transactionType),
		ActorID:         actorID,
		ActingRole:      string(actingRole),
		Timestamp:       now,
	})
	return nil
}

// Cancel moves a pending transaction to cancelled
func (t *Transaction) Cancel(actorID string, actingRole role.Role, reason string) error {
	if t.status != TransactionStatusPending {
		return fmt.Errorf("status must be pending, was %s", t.status)
	}
	now := time.Now()
	t.appendHistory(string(TransactionStatusCancelled), actorID, actingRole, reason, now)
	t.status = TransactionStatusCancelled
	t.updatedAt = now

	t.raiseEvent(&event.TransactionCancelled{
		TransactionID:   t.id,
		OrganizationID:  t.organizationID,
		EventID:         t.eventID,
		MerchantID:      t.merchantID,
		Amount:          t.amount,
		TransactionType: string(t.transactionType),
		ActorID:         actorID,
		ActingRole:      string(actingRole),
		Reason:          reason,
		Timestamp:       now,
	})
	return nil
}

func (t *Transaction) appendHistory(toStatus, actorID string, actingRole role.Role, reason string, at time.Time) {
	t.statusHistory = append(t.statusHistory, event.StatusChange{
		FromStatus: string(t.status),
		ToStatus:   toStatus,
		ActorID:    actorID,
		ActingRole: string(actingRole),
		Reason:     reason,
		At:         at,
	})
}

// GetUncommittedEvents returns events raised since the last commit
func (t *Transaction) GetUncommittedEvents() []event.DomainEvent {
	return t.uncommittedEvents
}

// MarkEventsAsCommitted clears the uncommitted event list
func (t *Transaction) MarkEventsAsCommitted() {
	t.uncommittedEvents = nil
}

func (t *Transaction) raiseEvent(e event.DomainEvent) {
	t.uncommittedEvents = append(t.uncommittedEvents, e)
}

func (t *Transaction) State() TransactionState {
	return TransactionState{
		ID:              t.id,
		OrganizationID:  t.organizationID,
		EventID:         t.eventID,
		MerchantID:      t.merchantID,
		CustomerUserID:  t.customerUserID,
		Amount:          t.amount,
		TransactionType: string(t.transactionType),
		PointCardID:     t.pointCardID,
		Status:          string(t.status),
		StatusHistory:   t.statusHistory,
		CreatedAt:       t.createdAt,
		UpdatedAt:       t.updatedAt,
	}
}
