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

// MongoPointCardRepository persists point card documents
type MongoPointCardRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoPointCardRepository creates a new point card repository
func NewMongoPointCardRepository(database *mongo.Database) *MongoPointCardRepository {
	return &MongoPointCardRepository{
		collection: database.Collection(CollectionPointCards),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoPointCardRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoPointCardRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoPointCardRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type pointCardDoc struct {
	ID             string                     `bson:"_id"`
	OrganizationID string                     `bson:"orgId"`
	EventID        string                     `bson:"eventId"`
	CardNumber     string                     `bson:"cardNumber"`
	HolderUserID   string                     `bson:"holderUserId,omitempty"`
	Balance        aggregate.PointCardBalance `bson:"balance"`
	Status         aggregate.PointCardStatus  `bson:"status"`
	CreatedAt      time.Time                  `bson:"createdAt"`
	UpdatedAt      time.Time                  `bson:"updatedAt"`
}

// GetByID retrieves a point card scoped to its organization and event
func (r *MongoPointCardRepository) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.PointCard, error) {
	ctx = r.getContext(ctx)

	var doc pointCardDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "orgId": orgID, "eventId": eventID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("point card")
		}
		return nil, fmt.Errorf("failed to get point card: %w", err)
	}

	return aggregate.RehydratePointCard(aggregate.PointCardState{
		ID:             doc.ID,
		OrganizationID: doc.OrganizationID,
		EventID:        doc.EventID,
		CardNumber:     doc.CardNumber,
		HolderUserID:   doc.HolderUserID,
		Balance:        doc.Balance,
		Status:         doc.Status,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	})
}

// Save stores a point card aggregate with upsert semantics
func (r *MongoPointCardRepository) Save(ctx context.Context, card *aggregate.PointCard) error {
	ctx = r.getContext(ctx)

	state := card.State()
	doc := pointCardDoc{
		ID:             state.ID,
		OrganizationID: state.OrganizationID,
		EventID:        state.EventID,
		CardNumber:     state.CardNumber,
		HolderUserID:   state.HolderUserID,
		Balance:        state.Balance,
		Status:         state.Status,
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      state.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save point card: %w", err)
	}

	card.MarkEventsAsCommitted()
	return nil
}
