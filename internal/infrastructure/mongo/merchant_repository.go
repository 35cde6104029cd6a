package mongo

import (
	"context"
	"fmt"
	"time"

	"bazaarhub/internal/domain/aggregate"
	apperrors "bazaarhub/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMerchantRepository persists merchant documents
type MongoMerchantRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoMerchantRepository creates a new merchant repository
func NewMongoMerchantRepository(database *mongo.Database) *MongoMerchantRepository {
	return &MongoMerchantRepository{
		collection: database.Collection(CollectionMerchants),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoMerchantRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoMerchantRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoMerchantRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type merchantDoc struct {
	ID              string                    `bson:"_id"`
	OrganizationID  string                    `bson:"orgId"`
	EventID         string                    `bson:"eventId"`
	Name            string                    `bson:"name"`
	OwnerUserID     string                    `bson:"ownerUserId"`
	AsistUserIDs    []string                  `bson:"asistUserIds"`
	OperationStatus aggregate.OperationStatus `bson:"operationStatus"`
	DailyRevenue    aggregate.DailyRevenue    `bson:"dailyRevenue"`
	CreatedAt       time.Time                 `bson:"createdAt"`
	UpdatedAt       time.Time                 `bson:"updatedAt"`
}

// GetByID retrieves a merchant scoped to its organization and event
func (r *MongoMerchantRepository) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.Merchant, error) {
	ctx = r.getContext(ctx)

	var doc merchantDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "orgId": orgID, "eventId": eventID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("merchant")
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}

	return aggregate.RehydrateMerchant(aggregate.MerchantState{
		ID:              doc.ID,
		OrganizationID:  doc.OrganizationID,
		EventID:         doc.EventID,
		Name:            doc.Name,
		OwnerUserID:     doc.OwnerUserID,
		AsistUserIDs:    doc.AsistUserIDs,
		OperationStatus: doc.OperationStatus,
		DailyRevenue:    doc.DailyRevenue,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	})
}

// Save stores a merchant aggregate with upsert semantics
func (r *MongoMerchantRepository) Save(ctx context.Context, merchant *aggregate.Merchant) error {
	ctx = r.getContext(ctx)

	state := merchant.State()
	doc := merchantDoc{
		ID:              state.ID,
		OrganizationID:  state.OrganizationID,
		EventID:         state.EventID,
		Name:            state.Name,
		OwnerUserID:     state.OwnerUserID,
		AsistUserIDs:    state.AsistUserIDs,
		OperationStatus: state.OperationStatus,
		DailyRevenue:    state.DailyRevenue,
		CreatedAt:       state.CreatedAt,
		UpdatedAt:       state.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save merchant: %w", err)
	}

	merchant.MarkEventsAsCommitted()
	return nil
}
