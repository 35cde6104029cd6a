package mongo

import (
	"context"
	"fmt"
	"time"

	"bazaarhub/internal/domain/aggregate"
	apperrors "bazaarhub/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOrganizationRepository reads organization documents
type MongoOrganizationRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoOrganizationRepository creates a new organization repository
func NewMongoOrganizationRepository(database *mongo.Database) *MongoOrganizationRepository {
	return &MongoOrganizationRepository{
		collection: database.Collection(CollectionOrganizations),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoOrganizationRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoOrganizationRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoOrganizationRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type organizationDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	WebhookURL string    `bson:"webhookUrl,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// GetByID retrieves an organization by id
func (r *MongoOrganizationRepository) GetByID(ctx context.Context, id string) (*aggregate.Organization, error) {
	ctx = r.getContext(ctx)

	var doc organizationDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("organization")
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return aggregate.RehydrateOrganization(aggregate.OrganizationState{
		ID:         doc.ID,
		Name:       doc.Name,
		WebhookURL: doc.WebhookURL,
		CreatedAt:  doc.CreatedAt,
	})
}

// ListIDs returns the ids of every organization
func (r *MongoOrganizationRepository) ListIDs(ctx context.Context) ([]string, error) {
	ctx = r.getContext(ctx)

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc organizationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode organization: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// MongoEventRepository reads event documents within an organization
type MongoEventRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoEventRepository creates a new event repository
func NewMongoEventRepository(database *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{
		collection: database.Collection(CollectionEvents),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoEventRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoEventRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoEventRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type eventDoc struct {
	ID             string                    `bson:"_id"`
	OrganizationID string                    `bson:"orgId"`
	Name           string                    `bson:"name"`
	Admins         []aggregate.ManagerRecord `bson:"admins"`
	SellerManagers []aggregate.ManagerRecord `bson:"sellerManagers"`
	StartsAt       time.Time                 `bson:"startsAt"`
	EndsAt         time.Time                 `bson:"endsAt"`
	CreatedAt      time.Time                 `bson:"createdAt"`
}

// GetByID retrieves an event scoped to its organization
func (r *MongoEventRepository) GetByID(ctx context.Context, orgID, id string) (*aggregate.Event, error) {
	ctx = r.getContext(ctx)

	var doc eventDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "orgId": orgID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("event")
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return aggregate.RehydrateEvent(aggregate.EventState{
		ID:             doc.ID,
		OrganizationID: doc.OrganizationID,
		Name:           doc.Name,
		Admins:         doc.Admins,
		SellerManagers: doc.SellerManagers,
		StartsAt:       doc.StartsAt,
		EndsAt:         doc.EndsAt,
		CreatedAt:      doc.CreatedAt,
	})
}

// ListIDs returns the ids of every event under an organization
func (r *MongoEventRepository) ListIDs(ctx context.Context, orgID string) ([]string, error) {
	ctx = r.getContext(ctx)

	cursor, err := r.collection.Find(ctx, bson.M{"orgId": orgID})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc eventDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}
