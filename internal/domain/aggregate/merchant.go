package aggregate

import (
	"fmt"
	"time"

	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/role"
)

// OperationStatus is the merchant's open/closed switch.
type OperationStatus struct {
	IsActive  bool      `bson:"isActive"`
	ChangedAt time.Time `bson:"changedAt"`
	ChangedBy string    `bson:"changedBy"`
}

// DailyRevenue holds a merchant's per-day counters plus the lifetime total.
type DailyRevenue struct {
	Today                 int64     `bson:"today"`
	TodayTransactionCount int64     `bson:"todayTransactionCount"`
	TodayOwnerCollected   int64     `bson:"todayOwnerCollected"`
	TodayAsistsCollected  int64     `bson:"todayAsistsCollected"`
	Total                 int64     `bson:"total"`
	LastResetAt           time.Time `bson:"lastResetAt"`
}

// Merchant represents a stall within an event.
type Merchant struct {
	id                string
	organizationID    string
	eventID           string
	name              string
	ownerUserID       string
	asistUserIDs      []string
	operationStatus   OperationStatus
	dailyRevenue      DailyRevenue
	createdAt         time.Time
	updatedAt         time.Time
	uncommittedEvents []event.DomainEvent
}

// MerchantState is the persisted shape of a merchant
type MerchantState struct {
	ID              string
	OrganizationID  string
	EventID         string
	Name            string
	OwnerUserID     string
	AsistUserIDs    []string
	OperationStatus OperationStatus
	DailyRevenue    DailyRevenue
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RehydrateMerchant rebuilds a merchant from its stored state
func RehydrateMerchant(state MerchantState) (*Merchant, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("merchant id cannot be empty")
	}
	return &Merchant{
		id:              state.ID,
		organizationID:  state.OrganizationID,
		eventID:         state.EventID,
		name:            state.Name,
		ownerUserID:     state.OwnerUserID,
		asistUserIDs:    state.AsistUserIDs,
		operationStatus: state.OperationStatus,
		dailyRevenue:    state.DailyRevenue,
		createdAt:       state.CreatedAt,
		updatedAt:       state.UpdatedAt,
	}, nil
}

func (m *Merchant) ID() string             { return m.id }
func (m *Merchant) OrganizationID() string { return m.organizationID }
func (m *Merchant) EventID() string        { return m.eventID }
func (m *Merchant) Name() string           { return m.name }
func (m *Merchant) OwnerUserID() string    { return m.ownerUserID }
func (m *Merchant) IsActive() bool         { return m.operationStatus.IsActive }

func (m *Merchant) OperationStatus() OperationStatus { return m.operationStatus }
func (m *Merchant) DailyRevenue() DailyRevenue       { return m.dailyRevenue }

// IsOwnedBy reports whether the user is the merchant's owner
func (m *Merchant) IsOwnedBy(userID string) bool {
	return m.ownerUserID == userID
}

// HasAsist reports whether the user is linked as an assistant
func (m *Merchant) HasAsist(userID string) bool {
	for _, id := range m.asistUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SetActive moves the merchant to the target state. Invoking the current
// state is a no-op and returns false; callers report statusChanged from
// the return value.
func (m *Merchant) SetActive(target bool, actorID string, actingRole role.Role) bool {
	if m.operationStatus.IsActive == target {
		return false
	}
	now := time.Now()
	m.operationStatus = OperationStatus{
		IsActive:  target,
		ChangedAt: now,
		ChangedBy: actorID,
	}
	m.updatedAt = now

	m.raiseEvent(&event.MerchantStatusChanged{
		MerchantID:     m.id,
		OrganizationID: m.organizationID,
		EventID:        m.eventID,
		IsActive:       target,
		ActorID:        actorID,
		ActingRole:     string(actingRole),
		Timestamp:      now,
	})
	return true
}

// RecordSale applies a confirmed sale to the revenue counters. The
// owner/assistant split follows the acting role of whoever confirmed.
func (m *Merchant) RecordSale(amount int64, actingRole role.Role) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	m.dailyRevenue.Today += amount
	m.dailyRevenue.TodayTransactionCount++
	m.dailyRevenue.Total += amount
	switch actingRole {
	case role.MerchantAsist:
		m.dailyRevenue.TodayAsistsCollected += amount
	default:
		m.dailyRevenue.TodayOwnerCollected += amount
	}
	m.updatedAt = time.Now()
	return nil
}

// ResetDaily zeroes the per-day revenue counters. The lifetime total is
// untouched.
func (m *Merchant) ResetDaily(at time.Time) {
	m.dailyRevenue.Today = 0
	m.dailyRevenue.TodayTransactionCount = 0
	m.dailyRevenue.TodayOwnerCollected = 0
	m.dailyRevenue.TodayAsistsCollected = 0
	m.dailyRevenue.LastResetAt = at
	m.updatedAt = at
}

// GetUncommittedEvents returns events raised since the last commit
func (m *Merchant) GetUncommittedEvents() []event.DomainEvent {
	return m.uncommittedEvents
}

// MarkEventsAsCommitted clears the uncommitted event list
func (m *Merchant) MarkEventsAsCommitted() {
	m.uncommittedEvents = nil
}

func (m *Merchant) raiseEvent(e event.DomainEvent) {
	m.uncommittedEvents = append(m.uncommittedEvents, e)
}

func (m *Merchant) State() MerchantState {
	return MerchantState{
		ID:              m.id,
		OrganizationID:  m.organizationID,
		EventID:         m.eventID,
		Name:            m.name,
		OwnerUserID:     m.ownerUserID,
		AsistUserIDs:    m.asistUserIDs,
		OperationStatus: m.operationStatus,
		DailyRevenue:    m.dailyRevenue,
		CreatedAt:       m.createdAt,
		UpdatedAt:       m.updatedAt,
	}
}
