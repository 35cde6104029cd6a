package aggregate

import (
	"fmt"
	"time"
)

// ManagerRecord is one entry of an event's embedded manager arrays.
type ManagerRecord struct {
	UserID  string    `bson:"userId"`
	Name    string    `bson:"name"`
	AddedAt time.Time `bson:"addedAt"`
}

// Event is a single bazaar instance under an organization. Its embedded
// admins and sellerManagers arrays are the sole source of truth for
// manager authorization.
type Event struct {
	id             string
	organizationID string
	name           string
	admins         []ManagerRecord
	sellerManagers []ManagerRecord
	startsAt       time.Time
	endsAt         time.Time
	createdAt      time.Time
}

// EventState is the persisted shape of an event
type EventState struct {
	ID             string
	OrganizationID string
	Name           string
	Admins         []ManagerRecord
	SellerManagers []ManagerRecord
	StartsAt       time.Time
	EndsAt         time.Time
	CreatedAt      time.Time
}

// RehydrateEvent rebuilds an event from its stored state
func RehydrateEvent(state EventState) (*Event, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("event id cannot be empty")
	}
	if state.OrganizationID == "" {
		return nil, fmt.Errorf("event organization id cannot be empty")
	}
	return &Event{
		id:             state.ID,
		organizationID: state.OrganizationID,
		name:           state.Name,
		admins:         state.Admins,
		sellerManagers: state.SellerManagers,
		startsAt:       state.StartsAt,
		endsAt:         state.EndsAt,
		createdAt:      state.CreatedAt,
	}, nil
}

func (e *Event) ID() string             { return e.id }
func (e *Event) OrganizationID() string { return e.organizationID }
func (e *Event) Name() string           { return e.name }

// IsAdmin reports whether the user appears in the admins array
func (e *Event) IsAdmin(userID string) bool {
	for _, m := range e.admins {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsSellerManager reports whether the user appears in the sellerManagers array
func (e *Event) IsSellerManager(userID string) bool {
	for _, m := range e.sellerManagers {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (e *Event) State() EventState {
	return EventState{
		ID:             e.id,
		OrganizationID: e.organizationID,
		Name:           e.name,
		Admins:         e.admins,
		SellerManagers: e.sellerManagers,
		StartsAt:       e.startsAt,
		EndsAt:         e.endsAt,
		CreatedAt:      e.createdAt,
	}
}
