package reminderRepo

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

// MongoReminderRepo implements ReminderRepository using MongoDB.
type MongoReminderRepo struct {
	coll *mongo.Collection
}

// NewMongoReminderRepo creates a new instance of ReminderRepository using MongoDB.
func NewMongoReminderRepo() ReminderRepository {
	repo := &MongoReminderRepo{coll: database.Collection("reminders")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
// (status, scheduledAt) serves the due-reminder scan; externalCallId serves
// webhook joins and is unique over the documents that have one.
func (r *MongoReminderRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "scheduledAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledAt", Value: 1}}},
		{
			Keys: bson.D{{Key: "externalCallId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"externalCallId": bson.M{"$type": "string"}},
			),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new reminder document.
func (r *MongoReminderRepo) Create(reminder *models.Reminder) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// GetByID retrieves a reminder by its unique ID.
func (r *MongoReminderRepo) GetByID(id string) (*models.Reminder, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var reminder models.Reminder
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&reminder); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reminder with id %s: %w", id, err)
	}
	return &reminder, nil
}

// GetByExternalCallID retrieves the reminder carrying the given provider call id.
func (r *MongoReminderRepo) GetByExternalCallID(externalCallID string) (*models.Reminder, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var reminder models.Reminder
	if err := r.coll.FindOne(ctx, bson.M{"externalCallId": externalCallID}).Decode(&reminder); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reminder with call id %s: %w", externalCallID, err)
	}
	return &reminder, nil
}

// ListByUser retrieves a user's reminders, newest scheduled first.
func (r *MongoReminderRepo) ListByUser(userID string, status models.ReminderStatus, page, pageSize int) ([]models.Reminder, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 25
	}

	filter := bson.M{"userId": userID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduledAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	for cursor.Next(ctx) {
		var rem models.Reminder
		if err := cursor.Decode(&rem); err != nil {
			return nil, fmt.Errorf("failed to decode reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, nil
}

// FindDue retrieves up to limit due reminders, earliest-due first.
func (r *MongoReminderRepo) FindDue(now time.Time, limit int) ([]models.Reminder, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":      models.StatusScheduled,
		"scheduledAt": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduledAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	for cursor.Next(ctx) {
		var rem models.Reminder
		if err := cursor.Decode(&rem); err != nil {
			return nil, fmt.Errorf("failed to decode reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, nil
}

// UpdateStatus sets the reminder's status unconditionally.
func (r *MongoReminderRepo) UpdateStatus(id string, status models.ReminderStatus, externalCallID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now()}
	if externalCallID != "" {
		set["externalCallId"] = externalCallID
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update reminder %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reminder with id %s not found", id)
	}
	return nil
}

// UpdateStatusIf sets the reminder's status only while the current status is
// one of from. A zero match is reported as applied=false, not an error.
func (r *MongoReminderRepo) UpdateStatusIf(id string, to models.ReminderStatus, from ...models.ReminderStatus) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update reminder %s: %w", id, err)
	}
	return result.ModifiedCount > 0, nil
}
