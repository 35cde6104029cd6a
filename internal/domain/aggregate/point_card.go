package aggregate

import (
	"fmt"
	"time"

	"bazaarhub/internal/domain/event"
)

// PointCardBalance tracks a prepaid card's funds. current + spent always
// equals initial; reserved never exceeds current.
type PointCardBalance struct {
	Initial  int64 `bson:"initial"`
	Current  int64 `bson:"current"`
	Spent    int64 `bson:"spent"`
	Reserved int64 `bson:"reserved"`
}

// PointCardStatus holds the card's soft-status flags
type PointCardStatus struct {
	IsActive    bool `bson:"isActive"`
	IsExpired   bool `bson:"isExpired"`
	IsDestroyed bool `bson:"isDestroyed"`
	IsEmpty     bool `bson:"isEmpty"`
}

// PointCard is a prepaid balance instrument scanned at merchant stalls.
type PointCard struct {
	id                string
	organizationID    string
	eventID           string
	cardNumber        string
	holderUserID      string
	balance           PointCardBalance
	status            PointCardStatus
	createdAt         time.Time
	updatedAt         time.Time
	uncommittedEvents []event.DomainEvent
}

// PointCardState is the persisted shape of a point card
type PointCardState struct {
	ID             string
	OrganizationID string
	EventID        string
	CardNumber     string
	HolderUserID   string
	Balance        PointCardBalance
	Status         PointCardStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RehydratePointCard rebuilds a point card from its stored state
func RehydratePointCard(state PointCardState) (*PointCard, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("point card id cannot be empty")
	}
	return &PointCard{
		id:             state.ID,
		organizationID: state.OrganizationID,
		eventID:        state.EventID,
		cardNumber:     state.CardNumber,
		holderUserID:   state.HolderUserID,
		balance:        state.Balance,
		status:         state.Status,
		createdAt:      state.CreatedAt,
		updatedAt:      state.UpdatedAt,
	}, nil
}

func (c *PointCard) ID() string               { return c.id }
func (c *PointCard) OrganizationID() string   { return c.organizationID }
func (c *PointCard) EventID() string          { return c.eventID }
func (c *PointCard) CardNumber() string       { return c.cardNumber }
func (c *PointCard) HolderUserID() string     { return c.holderUserID }
func (c *PointCard) Balance() PointCardBalance { return c.balance }
func (c *PointCard) Status() PointCardStatus  { return c.status }

// Available returns the spendable balance not yet reserved
func (c *PointCard) Available() int64 {
	return c.balance.Current - c.balance.Reserved
}

// UsableViolation returns a human-readable reason the card cannot be
// charged, or an empty string when it is usable.
func (c *PointCard) UsableViolation() string {
	switch {
	case c.status.IsDestroyed:
		return "point card is destroyed"
	case c.status.IsExpired:
		return "point card is expired"
	case !c.status.IsActive:
		return "point card is not active"
	}
	return ""
}

// Reserve holds funds for a pending transaction
func (c *PointCard) Reserve(transactionID, merchantID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	if v := c.UsableViolation(); v != "" {
		return fmt.Errorf("%s", v)
	}
	if c.Available() < amount {
		return fmt.Errorf("available balance %d is less than amount %d", c.Available(), amount)
	}
	now := time.Now()
	c.balance.Reserved += amount
	c.updatedAt = now

	c.raiseEvent(&event.PointCardReserved{
		CardID:         c.id,
		OrganizationID: c.organizationID,
		EventID:        c.eventID,
		TransactionID:  transactionID,
		MerchantID:     merchantID,
		Amount:         amount,
		Timestamp:      now,
	})
	return nil
}

// Debit settles a previously reserved amount: reserved and current drop,
// spent rises, and the card flips to empty at zero.
func (c *PointCard) Debit(transactionID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	if c.balance.Reserved < amount {
		return fmt.Errorf("reserved balance %d is less than amount %d", c.balance.Reserved, amount)
	}
	if c.balance.Current < amount {
		return fmt.Errorf("current balance %d is less than amount %d", c.balance.Current, amount)
	}
	now := time.Now()
	c.balance.Reserved -= amount
	c.balance.Current -= amount
	c.balance.Spent += amount
	if c.balance.Current == 0 {
		c.status.IsEmpty = true
	}
	c.updatedAt = now

	c.raiseEvent(&event.PointCardDebited{
		CardID:         c.id,
		OrganizationID: c.organizationID,
		EventID:        c.eventID,
		TransactionID:  transactionID,
		Amount:         amount,
		Remaining:      c.balance.Current,
		Timestamp:      now,
	})
	return nil
}

// Release frees a reservation when its transaction is cancelled
func (c *PointCard) Release(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	if c.balance.Reserved < amount {
		return fmt.Errorf("reserved balance %d is less than amount %d", c.balance.Reserved, amount)
	}
	c.balance.Reserved -= amount
	c.updatedAt = time.Now()
	return nil
}

// GetUncommittedEvents returns events raised since the last commit
func (c *PointCard) GetUncommittedEvents() []event.DomainEvent {
	return c.uncommittedEvents
}

// MarkEventsAsCommitted clears the uncommitted event list
func (c *PointCard) MarkEventsAsCommitted() {
	c.uncommittedEvents = nil
}

func (c *PointCard) raiseEvent(e event.DomainEvent) {
	c.uncommittedEvents = append(c.uncommittedEvents, e)
}

func (c *PointCard) State() PointCardState {
	return PointCardState{
		ID:             c.id,
		OrganizationID: c.organizationID,
		EventID:        c.eventID,
		CardNumber:     c.cardNumber,
		HolderUserID:   c.holderUserID,
		Balance:        c.balance,
		Status:         c.status,
		CreatedAt:      c.createdAt,
		UpdatedAt:      c.updatedAt,
	}
}
