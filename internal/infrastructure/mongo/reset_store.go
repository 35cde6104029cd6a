package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoResetStore provides the bulk primitives for the daily counter
// sweep. Each Reset* call commits one write batch; the caller bounds the
// batch size.
type MongoResetStore struct {
	merchants *mongo.Collection
	users     *mongo.Collection
	orgs      *MongoOrganizationRepository
	events    *MongoEventRepository
}

// NewMongoResetStore creates a new reset store
func NewMongoResetStore(database *mongo.Database) *MongoResetStore {
	return &MongoResetStore{
		merchants: database.Collection(CollectionMerchants),
		users:     database.Collection(CollectionUsers),
		orgs:      NewMongoOrganizationRepository(database),
		events:    NewMongoEventRepository(database),
	}
}

// ListOrganizationIDs returns all organization ids
func (s *MongoResetStore) ListOrganizationIDs(ctx context.Context) ([]string, error) {
	return s.orgs.ListIDs(ctx)
}

// ListEventIDs returns all event ids under an organization
func (s *MongoResetStore) ListEventIDs(ctx context.Context, orgID string) ([]string, error) {
	return s.events.ListIDs(ctx, orgID)
}

// ListMerchantIDs returns all merchant ids within an event
func (s *MongoResetStore) ListMerchantIDs(ctx context.Context, orgID, eventID string) ([]string, error) {
	return s.listIDs(ctx, s.merchants, bson.M{"orgId": orgID, "eventId": eventID})
}

// ListAsistUserIDs returns the ids of users carrying the merchantAsist
// role within an event
func (s *MongoResetStore) ListAsistUserIDs(ctx context.Context, orgID, eventID string) ([]string, error) {
	filter := bson.M{"orgId": orgID, "eventId": eventID, "roles": "merchantAsist"}
	return s.listIDs(ctx, s.users, filter)
}

func (s *MongoResetStore) listIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]string, error) {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s id: %w", coll.Name(), err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// ResetMerchants zeroes the per-day revenue counters of one batch of
// merchants and stamps the reset time. One call is one bulk commit.
func (s *MongoResetStore) ResetMerchants(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(ids))
	update := bson.M{"$set": bson.M{
		"dailyRevenue.today":                 0,
		"dailyRevenue.todayTransactionCount": 0,
		"dailyRevenue.todayOwnerCollected":   0,
		"dailyRevenue.todayAsistsCollected":  0,
		"dailyRevenue.lastResetAt":           at,
		"updatedAt":                          at,
	}}
	for _, id := range ids {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(update))
	}

	if _, err := s.merchants.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to reset merchants: %w", err)
	}
	return nil
}

// ResetAsists zeroes the per-day statistics of one batch of merchant
// assistants and stamps the reset time.
func (s *MongoResetStore) ResetAsists(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(ids))
	update := bson.M{"$set": bson.M{
		"merchantAsist.statistics.todayCollected":        0,
		"merchantAsist.statistics.todayTransactionCount": 0,
		"merchantAsist.statistics.lastResetAt":           at,
		"updatedAt":                                      at,
	}}
	for _, id := range ids {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(update))
	}

	if _, err := s.users.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to reset assistants: %w", err)
	}
	return nil
}
