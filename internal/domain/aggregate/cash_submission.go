package aggregate

import (
	"fmt"
	"time"

	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/role"
)

// CashSubmissionStatus represents the status of a cash submission
type CashSubmissionStatus string

const (
	CashSubmissionStatusPending   CashSubmissionStatus = "pending"
	CashSubmissionStatusConfirmed CashSubmissionStatus = "confirmed"
)

// CashSubmission records physical cash handed from a submitter role to a
// receiving seller manager. The only legal edge is pending→confirmed.
type CashSubmission struct {
	id                string
	organizationID    string
	eventID           string
	submitterID       string
	submitterRole     string
	receivedBy        string
	amount            int64
	status            CashSubmissionStatus
	statusHistory     []event.StatusChange
	createdAt         time.Time
	updatedAt         time.Time
	uncommittedEvents []event.DomainEvent
}

// CashSubmissionState is the persisted shape of a cash submission
type CashSubmissionState struct {
	ID             string
	OrganizationID string
	EventID        string
	SubmitterID    string
	SubmitterRole  string
	ReceivedBy     string
	Amount         int64
	Status         string
	StatusHistory  []event.StatusChange
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RehydrateCashSubmission rebuilds a cash submission from its stored state
func RehydrateCashSubmission(state CashSubmissionState) (*CashSubmission, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("cash submission id cannot be empty")
	}
	return &CashSubmission{
		id:             state.ID,
		organizationID: state.OrganizationID,
		eventID:        state.EventID,
		submitterID:    state.SubmitterID,
		submitterRole:  state.SubmitterRole,
		receivedBy:     state.ReceivedBy,
		amount:         state.Amount,
		status:         CashSubmissionStatus(state.Status),
		statusHistory:  state.StatusHistory,
		createdAt:      state.CreatedAt,
		updatedAt:      state.UpdatedAt,
	}, nil
}

func (s *CashSubmission) ID() string                   { return s.id }
func (s *CashSubmission) OrganizationID() string       { return s.organizationID }
func (s *CashSubmission) EventID() string              { return s.eventID }
func (s *CashSubmission) SubmitterID() string          { return s.submitterID }
func (s *CashSubmission) SubmitterRole() string        { return s.submitterRole }
func (s *CashSubmission) ReceivedBy() string           { return s.receivedBy }
func (s *CashSubmission) Amount() int64                { return s.amount }
func (s *CashSubmission) Status() CashSubmissionStatus { return s.status }
func (s *CashSubmission) UpdatedAt() time.Time         { return s.updatedAt }

// StatusHistory returns the append-only status log
func (s *CashSubmission) StatusHistory() []event.StatusChange {
	out := make([]event.StatusChange, len(s.statusHistory))
	copy(out, s.statusHistory)
	return out
}

// Confirm moves a pending submission to confirmed. The matching cash
// stats delta on the receiving manager is applied by the caller inside
// the same transaction.
func (s *CashSubmission) Confirm(actorID string, actingRole role.Role) error {
	if s.status != CashSubmissionStatusPending {
		return fmt.Errorf("status must be pending, was %s", s.status)
	}
	now := time.Now()
	s.statusHistory = append(s.statusHistory, event.StatusChange{
		FromStatus: string(s.status),
		ToStatus:   string(CashSubmissionStatusConfirmed),
		ActorID:    actorID,
		ActingRole: string(actingRole),
		At:         now,
	})
	s.status = CashSubmissionStatusConfirmed
	s.updatedAt = now

	s.raiseEvent(&event.CashSubmissionConfirmed{
		SubmissionID:   s.id,
		OrganizationID: s.organizationID,
		EventID:        s.eventID,
		SubmitterID:    s.submitterID,
		ReceivedBy:     s.receivedBy,
		Amount:         s.amount,
		Timestamp:      now,
	})
	return nil
}

// GetUncommittedEvents returns events raised since the last commit
func (s *CashSubmission) GetUncommittedEvents() []event.DomainEvent {
	return s.uncommittedEvents
}

// MarkEventsAsCommitted clears the uncommitted event list
func (s *CashSubmission) MarkEventsAsCommitted() {
	s.uncommittedEvents = nil
}

func (s *CashSubmission) raiseEvent(e event.DomainEvent) {
	s.uncommittedEvents = append(s.uncommittedEvents, e)
}

func (s *CashSubmission) State() CashSubmissionState {
	return CashSubmissionState{
		ID:             s.id,
		OrganizationID: s.organizationID,
		EventID:        s.eventID,
		SubmitterID:    s.submitterID,
		SubmitterRole:  s.submitterRole,
		ReceivedBy:     s.receivedBy,
		Amount:         s.amount,
		Status:         string(s.status),
		StatusHistory:  s.statusHistory,
		CreatedAt:      s.createdAt,
		UpdatedAt:      s.updatedAt,
	}
}
