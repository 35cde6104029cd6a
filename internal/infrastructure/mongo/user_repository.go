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

// MongoUserRepository persists user documents
type MongoUserRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoUserRepository creates a new user repository
func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: database.Collection(CollectionUsers),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoUserRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoUserRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoUserRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type userDoc struct {
	ID             string                           `bson:"_id"`
	OrganizationID string                           `bson:"orgId"`
	EventID        string                           `bson:"eventId"`
	Name           string                           `bson:"name"`
	Email          string                           `bson:"email"`
	HashedPassword string                           `bson:"hashedPassword"`
	Roles          []string                         `bson:"roles"`
	SellerManager  *aggregate.SellerManagerProfile  `bson:"sellerManager,omitempty"`
	MerchantAsist  *aggregate.MerchantAsistProfile  `bson:"merchantAsist,omitempty"`
	CreatedAt      time.Time                        `bson:"createdAt"`
	UpdatedAt      time.Time                        `bson:"updatedAt"`
}

func userFromDoc(doc userDoc) (*aggregate.User, error) {
	return aggregate.RehydrateUser(aggregate.UserState{
		ID:             doc.ID,
		OrganizationID: doc.OrganizationID,
		EventID:        doc.EventID,
		Name:           doc.Name,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		Roles:          doc.Roles,
		SellerManager:  doc.SellerManager,
		MerchantAsist:  doc.MerchantAsist,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	})
}

// GetByID retrieves a user scoped to its organization and event
func (r *MongoUserRepository) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.User, error) {
	ctx = r.getContext(ctx)

	var doc userDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "orgId": orgID, "eventId": eventID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userFromDoc(doc)
}

// GetByEmail retrieves a user by email across events, for login
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*aggregate.User, error) {
	ctx = r.getContext(ctx)

	var doc userDoc
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return userFromDoc(doc)
}

// Save stores a user aggregate with upsert semantics
func (r *MongoUserRepository) Save(ctx context.Context, user *aggregate.User) error {
	ctx = r.getContext(ctx)

	state := user.State()
	doc := userDoc{
		ID:             state.ID,
		OrganizationID: state.OrganizationID,
		EventID:        state.EventID,
		Name:           state.Name,
		Email:          state.Email,
		HashedPassword: state.HashedPassword,
		Roles:          state.Roles,
		SellerManager:  state.SellerManager,
		MerchantAsist:  state.MerchantAsist,
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      state.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
