package repository

import (
	"context"
	"time"

	"bazaarhub/internal/domain/aggregate"
)

// OrganizationRepository reads organizations
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*aggregate.Organization, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// EventRepository reads events within an organization
type EventRepository interface {
	GetByID(ctx context.Context, orgID, id string) (*aggregate.Event, error)
	ListIDs(ctx context.Context, orgID string) ([]string, error)
}

// UserRepository persists users within an event
type UserRepository interface {
	GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.User, error)
	GetByEmail(ctx context.Context, email string) (*aggregate.User, error)
	Save(ctx context.Context, user *aggregate.User) error
}

// MerchantRepository persists merchants within an event
type MerchantRepository interface {
	GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.Merchant, error)
	Save(ctx context.Context, merchant *aggregate.Merchant) error
}

// TransactionRepository persists transactions within an event
type TransactionRepository interface {
	GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.Transaction, error)
	Save(ctx context.Context, tx *aggregate.Transaction) error
}

// CashSubmissionRepository persists cash submissions within an event
type CashSubmissionRepository interface {
	GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.CashSubmission, error)
	Save(ctx context.Context, submission *aggregate.CashSubmission) error
}

// PointCardRepository persists point cards within an event
type PointCardRepository interface {
	GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.PointCard, error)
	Save(ctx context.Context, card *aggregate.PointCard) error
}

// AuditEntry is one append-only record of a guarded transition
type AuditEntry struct {
	ID             string
	OrganizationID string
	EventID        string
	Entity         string
	EntityID       string
	Action         string
	ActorID        string
	ActingRole     string
	Detail         map[string]interface{}
	At             time.Time
}

// AuditRepository appends audit entries; they are never updated or deleted
type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) error
}
