package mongo

import (
	"context"
	"fmt"
	"time"

	"bazaarhub/internal/domain/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAuditRepository appends guarded-transition records to the
// audit_log collection. Entries are insert-only.
type MongoAuditRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoAuditRepository creates a new audit repository
func NewMongoAuditRepository(database *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{
		collection: database.Collection(CollectionAuditLog),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoAuditRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoAuditRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoAuditRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type auditDoc struct {
	ID             string                 `bson:"_id"`
	OrganizationID string                 `bson:"orgId"`
	EventID        string                 `bson:"eventId"`
	Entity         string                 `bson:"entity"`
	EntityID       string                 `bson:"entityId"`
	Action         string                 `bson:"action"`
	ActorID        string                 `bson:"actorId"`
	ActingRole     string                 `bson:"actingRole"`
	Detail         map[string]interface{} `bson:"detail,omitempty"`
	At             time.Time              `bson:"at"`
}

// Append inserts one audit entry
func (r *MongoAuditRepository) Append(ctx context.Context, entry repository.AuditEntry) error {
	ctx = r.getContext(ctx)

	doc := auditDoc{
		ID:             entry.ID,
		OrganizationID: entry.OrganizationID,
		EventID:        entry.EventID,
		Entity:         entry.Entity,
		EntityID:       entry.EntityID,
		Action:         entry.Action,
		ActorID:        entry.ActorID,
		ActingRole:     entry.ActingRole,
		Detail:         entry.Detail,
		At:             entry.At,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}
