package mongo

import (
	"context"
	"fmt"
	"sync"

	"bazaarhub/internal/domain/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUnitOfWork implements the Unit of Work pattern over MongoDB
// sessions. Repositories created through it share one transaction, so a
// guarded transition's primary and secondary writes commit atomically.
type MongoUnitOfWork struct {
	client        *mongo.Client
	database      *mongo.Database
	session       mongo.Session
	mutex         sync.Mutex
	inTransaction bool

	orgRepo       *MongoOrganizationRepository
	eventRepo     *MongoEventRepository
	userRepo      *MongoUserRepository
	merchantRepo  *MongoMerchantRepository
	txRepo        *MongoTransactionRepository
	cashRepo      *MongoCashSubmissionRepository
	pointCardRepo *MongoPointCardRepository
	auditRepo     *MongoAuditRepository
}

// NewMongoUnitOfWork creates a new MongoDB unit of work
func NewMongoUnitOfWork(client *mongo.Client, database *mongo.Database) *MongoUnitOfWork {
	return &MongoUnitOfWork{
		client:   client,
		database: database,
	}
}

// Begin starts a new transaction
func (uow *MongoUnitOfWork) Begin(ctx context.Context) error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.inTransaction {
		return fmt.Errorf("unit of work is already in transaction")
	}

	session, err := uow.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	uow.session = session
	uow.inTransaction = true
	uow.setTransactionForRepositories(session)

	return nil
}

// Commit commits the current transaction
func (uow *MongoUnitOfWork) Commit(ctx context.Context) error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if !uow.inTransaction {
		return fmt.Errorf("no active transaction to commit")
	}

	if err := uow.session.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	uow.endTransaction(ctx)
	return nil
}

// Rollback rolls back the current transaction
func (uow *MongoUnitOfWork) Rollback(ctx context.Context) error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if !uow.inTransaction {
		return fmt.Errorf("no active transaction to rollback")
	}

	if err := uow.session.AbortTransaction(ctx); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	uow.endTransaction(ctx)
	return nil
}

// OrganizationRepository returns the organization repository
func (uow *MongoUnitOfWork) OrganizationRepository() repository.OrganizationRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.orgRepo == nil {
		uow.orgRepo = NewMongoOrganizationRepository(uow.database)
		if uow.inTransaction {
			uow.orgRepo.SetTransaction(uow.session)
		}
	}
	return uow.orgRepo
}

// EventRepository returns the event repository
func (uow *MongoUnitOfWork) EventRepository() repository.EventRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.eventRepo == nil {
		uow.eventRepo = NewMongoEventRepository(uow.database)
		if uow.inTransaction {
			uow.eventRepo.SetTransaction(uow.session)
		}
	}
	return uow.eventRepo
}

// UserRepository returns the user repository
func (uow *MongoUnitOfWork) UserRepository() repository.UserRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.userRepo == nil {
		uow.userRepo = NewMongoUserRepository(uow.database)
		if uow.inTransaction {
			uow.userRepo.SetTransaction(uow.session)
		}
	}
	return uow.userRepo
}

// MerchantRepository returns the merchant repository
func (uow *MongoUnitOfWork) MerchantRepository() repository.MerchantRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.merchantRepo == nil {
		uow.merchantRepo = NewMongoMerchantRepository(uow.database)
		if uow.inTransaction {
			uow.merchantRepo.SetTransaction(uow.session)
		}
	}
	return uow.merchantRepo
}

// TransactionRepository returns the transaction repository
func (uow *MongoUnitOfWork) TransactionRepository() repository.TransactionRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.txRepo == nil {
		uow.txRepo = NewMongoTransactionRepository(uow.database)
		if uow.inTransaction {
			uow.txRepo.SetTransaction(uow.session)
		}
	}
	return uow.txRepo
}

// CashSubmissionRepository returns the cash submission repository
func (uow *MongoUnitOfWork) CashSubmissionRepository() repository.CashSubmissionRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.cashRepo == nil {
		uow.cashRepo = NewMongoCashSubmissionRepository(uow.database)
		if uow.inTransaction {
			uow.cashRepo.SetTransaction(uow.session)
		}
	}
	return uow.cashRepo
}

// PointCardRepository returns the point card repository
func (uow *MongoUnitOfWork) PointCardRepository() repository.PointCardRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.pointCardRepo == nil {
		uow.pointCardRepo = NewMongoPointCardRepository(uow.database)
		if uow.inTransaction {
			uow.pointCardRepo.SetTransaction(uow.session)
		}
	}
	return uow.pointCardRepo
}

// AuditRepository returns the audit repository
func (uow *MongoUnitOfWork) AuditRepository() repository.AuditRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.auditRepo == nil {
		uow.auditRepo = NewMongoAuditRepository(uow.database)
		if uow.inTransaction {
			uow.auditRepo.SetTransaction(uow.session)
		}
	}
	return uow.auditRepo
}

// Close closes the unit of work, aborting any transaction still open
func (uow *MongoUnitOfWork) Close() error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.inTransaction && uow.session != nil {
		ctx := context.Background()
		uow.session.AbortTransaction(ctx)
		uow.endTransaction(ctx)
	}
	return nil
}

// IsInTransaction returns whether the unit of work is in a transaction
func (uow *MongoUnitOfWork) IsInTransaction() bool {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()
	return uow.inTransaction
}

// endTransaction cleans up transaction resources
func (uow *MongoUnitOfWork) endTransaction(ctx context.Context) {
	if uow.session != nil {
		uow.session.EndSession(ctx)
		uow.session = nil
	}
	uow.inTransaction = false
	uow.setTransactionForRepositories(nil)
}

// setTransactionForRepositories pushes the session into every repository
// already constructed.
func (uow *MongoUnitOfWork) setTransactionForRepositories(session mongo.Session) {
	repos := []repository.TransactionalRepository{}
	if uow.orgRepo != nil {
		repos = append(repos, uow.orgRepo)
	}
	if uow.eventRepo != nil {
		repos = append(repos, uow.eventRepo)
	}
	if uow.userRepo != nil {
		repos = append(repos, uow.userRepo)
	}
	if uow.merchantRepo != nil {
		repos = append(repos, uow.merchantRepo)
	}
	if uow.txRepo != nil {
		repos = append(repos, uow.txRepo)
	}
	if uow.cashRepo != nil {
		repos = append(repos, uow.cashRepo)
	}
	if uow.pointCardRepo != nil {
		repos = append(repos, uow.pointCardRepo)
	}
	if uow.auditRepo != nil {
		repos = append(repos, uow.auditRepo)
	}
	for _, r := range repos {
		r.SetTransaction(session)
	}
}

// MongoUnitOfWorkFactory creates MongoDB unit of work instances
type MongoUnitOfWorkFactory struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoUnitOfWorkFactory creates a new MongoDB unit of work factory
func NewMongoUnitOfWorkFactory(client *mongo.Client, database *mongo.Database) *MongoUnitOfWorkFactory {
	return &MongoUnitOfWorkFactory{
		client:   client,
		database: database,
	}
}

// CreateUnitOfWork creates a new unit of work instance
func (f *MongoUnitOfWorkFactory) CreateUnitOfWork() repository.UnitOfWork {
	return NewMongoUnitOfWork(f.client, f.database)
}
