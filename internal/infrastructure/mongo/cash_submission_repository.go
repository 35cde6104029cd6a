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

// MongoCashSubmissionRepository persists cash submission documents
type MongoCashSubmissionRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoCashSubmissionRepository creates a new cash submission repository
func NewMongoCashSubmissionRepository(database *mongo.Database) *MongoCashSubmissionRepository {
	return &MongoCashSubmissionRepository{
		collection: database.Collection(CollectionCashSubmissions),
	}
}

// SetTransaction implements TransactionalRepository
func (r *MongoCashSubmissionRepository) SetTransaction(tx interface{}) {
	if session, ok := tx.(mongo.Session); ok {
		r.session = session
	} else {
		r.session = nil
	}
}

// IsTransactional implements TransactionalRepository
func (r *MongoCashSubmissionRepository) IsTransactional() bool {
	return r.session != nil
}

func (r *MongoCashSubmissionRepository) getContext(ctx context.Context) context.Context {
	if r.session != nil {
		return mongo.NewSessionContext(ctx, r.session)
	}
	return ctx
}

type cashSubmissionDoc struct {
	ID             string               `bson:"_id"`
	OrganizationID string               `bson:"orgId"`
	EventID        string               `bson:"eventId"`
	SubmitterID    string               `bson:"submitterId"`
	SubmitterRole  string               `bson:"submitterRole"`
	ReceivedBy     string               `bson:"receivedBy"`
	Amount         int64                `bson:"amount"`
	Status         string               `bson:"status"`
	StatusHistory  []event.StatusChange `bson:"statusHistory"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

// GetByID retrieves a cash submission scoped to its organization and event
func (r *MongoCashSubmissionRepository) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.CashSubmission, error) {
	ctx = r.getContext(ctx)

	var doc cashSubmissionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "orgId": orgID, "eventId": eventID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("cash submission")
		}
		return nil, fmt.Errorf("failed to get cash submission: %w", err)
	}

	return aggregate.RehydrateCashSubmission(aggregate.CashSubmissionState{
		ID:             doc.ID,
		OrganizationID: doc.OrganizationID,
		EventID:        doc.EventID,
		SubmitterID:    doc.SubmitterID,
		SubmitterRole:  doc.SubmitterRole,
		ReceivedBy:     doc.ReceivedBy,
		Amount:         doc.Amount,
		Status:         doc.Status,
		StatusHistory:  doc.StatusHistory,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	})
}

// Save stores a cash submission aggregate with upsert semantics
func (r *MongoCashSubmissionRepository) Save(ctx context.Context, submission *aggregate.CashSubmission) error {
	ctx = r.getContext(ctx)

	state := submission.State()
	doc := cashSubmissionDoc{
		ID:             state.ID,
		OrganizationID: state.OrganizationID,
		EventID:        state.EventID,
		SubmitterID:    state.SubmitterID,
		SubmitterRole:  state.SubmitterRole,
		ReceivedBy:     state.ReceivedBy,
		Amount:         state.Amount,
		Status:         state.Status,
		StatusHistory:  state.StatusHistory,
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      state.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save cash submission: %w", err)
	}

	submission.MarkEventsAsCommitted()
	return nil
}
