package calllogRepo

import (
	"context"
	"fmt"
	"time"

	"remindcall/database"
	"remindcall/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCallLogRepo implements CallLogRepository using MongoDB.
type MongoCallLogRepo struct {
	coll *mongo.Collection
}

// NewMongoCallLogRepo creates a new instance of CallLogRepository using MongoDB.
func NewMongoCallLogRepo() CallLogRepository {
	repo := &MongoCallLogRepo{coll: database.Collection("call_logs")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates the unique idempotency index and the reminder lookup index.
func (r *MongoCallLogRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reminderId", Value: 1}}},
		{
			Keys:    bson.D{{Key: "externalCallId", Value: 1}, {Key: "provider", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the log, mapping a duplicate-key conflict on the
// (externalCallId, provider) index to (false, nil). Two racing deliveries
// can both pass an application-level existence check; the index decides.
func (r *MongoCallLogRepo) CreateIfAbsent(log *models.CallLog) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if log.ReceivedAt.IsZero() {
		log.ReceivedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, log); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create call log: %w", err)
	}
	return true, nil
}

// GetByExternalCallID retrieves the log for the given idempotency key.
func (r *MongoCallLogRepo) GetByExternalCallID(externalCallID string, provider models.CallProvider) (*models.CallLog, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"externalCallId": externalCallID, "provider": provider}

	var log models.CallLog
	if err := r.coll.FindOne(ctx, filter).Decode(&log); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch call log for call id %s: %w", externalCallID, err)
	}
	return &log, nil
}

// ListByReminder retrieves all logs for a reminder, oldest first.
func (r *MongoCallLogRepo) ListByReminder(reminderID string) ([]models.CallLog, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"reminderId": reminderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs for reminder %s: %w", reminderID, err)
	}
	defer cursor.Close(ctx)

	var logs []models.CallLog
	for cursor.Next(ctx) {
		var l models.CallLog
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode call log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
