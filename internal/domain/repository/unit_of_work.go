package repository

import (
	"context"
)

// UnitOfWork manages repositories sharing one store transaction. Every
// guarded state transition runs inside exactly one unit of work.
type UnitOfWork interface {
	// Transaction management
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Repository factory methods
	OrganizationRepository() OrganizationRepository
	EventRepository() EventRepository
	UserRepository() UserRepository
	MerchantRepository() MerchantRepository
	TransactionRepository() TransactionRepository
	CashSubmissionRepository() CashSubmissionRepository
	PointCardRepository() PointCardRepository
	AuditRepository() AuditRepository

	// Resource management
	Close() error

	// Transaction state
	IsInTransaction() bool
}

// UnitOfWorkFactory creates new unit of work instances
type UnitOfWorkFactory interface {
	CreateUnitOfWork() UnitOfWork
}

// TransactionalRepository extends a repository with transaction support
type TransactionalRepository interface {
	// Set transaction context for the repository
	SetTransaction(tx interface{})

	// Check if repository is in transaction
	IsTransactional() bool
}
