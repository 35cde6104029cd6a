package mongo

import (
	"context"
	"fmt"
	"time"

	"bazaarhub/internal/domain/aggregate"
	"bazaarhub/internal/domain/event"
	apperrors "bazaarhub/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTransactionRepository persists transaction documents
type MongoTransactionRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoTransactionRepository creates a new transaction repository
func NewMongoTransactionRepository(database *mongo.Database) *MongoTransactionRepository {
	return &MongoTransactionRepository{
		collection: database.Collection(CollectionTransactions),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoTransactionRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoTransactionRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoTransactionRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type transactionDoc struct {
	ID              string               `bson:"_id"`
	OrganizationID  string               `bson:"orgId"`
	EventID         string               `bson:"eventId"`
	MerchantID      string               `bson:"merchantId"`
	CustomerUserID  string               `bson:"customerUserId,omitempty"`
	Amount          int64                `bson:"amount"`
	TransactionType string               `bson:"transactionType"`
	PointCardID     string               `bson:"pointCardId,omitempty"`
	Status          string               `bson:"status"`
	StatusHistory   []event.StatusChange `bson:"statusHistory"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

// GetByID retrieves a transaction scoped to its organization and event
func (r *MongoTransactionRepository) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.Transaction, error) {
	ctx = r.getContext(ctx)

	var doc transactionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "orgId": orgID, "eventId": eventID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("transaction")
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return aggregate.RehydrateTransaction(aggregate.TransactionState{
		ID:              doc.ID,
		OrganizationID:  doc.OrganizationID,
		EventID:         doc.EventID,
		MerchantID:      doc.MerchantID,
		CustomerUserID:  doc.CustomerUserID,
		Amount:          doc.Amount,
		TransactionType: doc.TransactionType,
		PointCardID:     doc.PointCardID,
		Status:          doc.Status,
		StatusHistory:   doc.StatusHistory,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	})
}

// Save stores a transaction aggregate with upsert semantics
func (r *MongoTransactionRepository) Save(ctx context.Context, tx *aggregate.Transaction) error {
	ctx = r.getContext(ctx)

	state := tx.State()
	doc := transactionDoc{
		ID:              state.ID,
		OrganizationID:  state.OrganizationID,
		EventID:         state.EventID,
		MerchantID:      state.MerchantID,
		CustomerUserID:  state.CustomerUserID,
		Amount:          state.Amount,
		TransactionType: state.TransactionType,
		PointCardID:     state.PointCardID,
		Status:          state.Status,
		StatusHistory:   state.StatusHistory,
		CreatedAt:       state.CreatedAt,
		UpdatedAt:       state.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	tx.MarkEventsAsCommitted()
	return nil
}
