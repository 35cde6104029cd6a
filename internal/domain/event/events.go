package event

import "time"

// DomainEvent is implemented by every event raised by an aggregate.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// StatusChange is one entry of an aggregate's append-only status history
// (duplicated from aggregate field shapes to avoid circular dependency)
type StatusChange struct {
	FromStatus string    `json:"from_status" bson:"fromStatus"`
	ToStatus   string    `json:"to_status" bson:"toStatus"`
	ActorID    string    `json:"actor_id" bson:"actorId"`
	ActingRole string    `json:"acting_role" bson:"actingRole"`
	Reason     string    `json:"reason,omitempty" bson:"reason,omitempty"`
	At         time.Time `json:"at" bson:"at"`
}

// CashSubmissionConfirmed event
type CashSubmissionConfirmed struct {
	SubmissionID   string    `json:"submission_id"`
	OrganizationID string    `json:"organization_id"`
	EventID        string    `json:"event_id"`
	SubmitterID    string    `json:"submitter_id"`
	ReceivedBy     string    `json:"received_by"`
	Amount         int64     `json:"amount"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e *CashSubmissionConfirmed) EventType() string     { return "CashSubmissionConfirmed" }
func (e *CashSubmissionConfirmed) AggregateID() string   { return e.SubmissionID }
func (e *CashSubmissionConfirmed) OccurredAt() time.Time { return e.Timestamp }

// TransactionConfirmed event
type TransactionConfirmed struct {
	TransactionID   string    `json:"transaction_id"`
	OrganizationID  string    `json:"organization_id"`
	EventID         string    `json:"event_id"`
	MerchantID      string    `json:"merchant_id"`
	CustomerID      string    `json:"customer_id"`
	Amount          int64     `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	ActorID         string    `json:"actor_id"`
	ActingRole      string    `json:"acting_role"`
	Timestamp       time.Time `json:"timestamp"`
}

func (e *TransactionConfirmed) EventType() string     { return "TransactionConfirmed" }
func (e *TransactionConfirmed) AggregateID() string   { return e.TransactionID }
func (e *TransactionConfirmed) OccurredAt() time.Time { return e.Timestamp }

// TransactionCancelled event
type TransactionCancelled struct {
	TransactionID   string    `json:"transaction_id"`
	OrganizationID  string    `json:"organization_id"`
	EventID         string    `json:"event_id"`
	MerchantID      string    `json:"merchant_id"`
	Amount          int64     `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	ActorID         string    `json:"actor_id"`
	ActingRole      string    `json:"acting_role"`
	Reason          string    `json:"reason,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

func (e *TransactionCancelled) EventType() string     { return "TransactionCancelled" }
func (e *TransactionCancelled) AggregateID() string   { return e.TransactionID }
func (e *TransactionCancelled) OccurredAt() time.Time { return e.Timestamp }

// MerchantStatusChanged event
type MerchantStatusChanged struct {
	MerchantID     string    `json:"merchant_id"`
	OrganizationID string    `json:"organization_id"`
	EventID        string    `json:"event_id"`
	IsActive       bool      `json:"is_active"`
	ActorID        string    `json:"actor_id"`
	ActingRole     string    `json:"acting_role"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e *MerchantStatusChanged) EventType() string     { return "MerchantStatusChanged" }
func (e *MerchantStatusChanged) AggregateID() string   { return e.MerchantID }
func (e *MerchantStatusChanged) OccurredAt() time.Time { return e.Timestamp }

// PointCardReserved event
type PointCardReserved struct {
	CardID         string    `json:"card_id"`
	OrganizationID string    `json:"organization_id"`
	EventID        string    `json:"event_id"`
	TransactionID  string    `json:"transaction_id"`
	MerchantID     string    `json:"merchant_id"`
	Amount         int64     `json:"amount"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e *PointCardReserved) EventType() string     { return "PointCardReserved" }
func (e *PointCardReserved) AggregateID() string   { return e.CardID }
func (e *PointCardReserved) OccurredAt() time.Time { return e.Timestamp }

// PointCardDebited event
type PointCardDebited struct {
	CardID         string    `json:"card_id"`
	OrganizationID string    `json:"organization_id"`
	EventID        string    `json:"event_id"`
	TransactionID  string    `json:"transaction_id"`
	Amount         int64     `json:"amount"`
	Remaining      int64     `json:"remaining"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e *PointCardDebited) EventType() string     { return "PointCardDebited" }
func (e *PointCardDebited) AggregateID() string   { return e.CardID }
func (e *PointCardDebited) OccurredAt() time.Time { return e.Timestamp }

// DailyResetCompleted event
type DailyResetCompleted struct {
	RunID          string    `json:"run_id"`
	Organizations  int       `json:"organizations"`
	Events         int       `json:"events"`
	MerchantsReset int       `json:"merchants_reset"`
	AsistsReset    int       `json:"asists_reset"`
	Batches        int       `json:"batches"`
	Duration       string    `json:"duration"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e *DailyResetCompleted) EventType() string     { return "DailyResetCompleted" }
func (e *DailyResetCompleted) AggregateID() string   { return e.RunID }
func (e *DailyResetCompleted) OccurredAt() time.Time { return e.Timestamp }
