package mongo

import (
	"context"
	"errors"
	"time"

	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollectionName = "notifications"

// mongoNotificationRepository implements repository.NotificationRepository.
type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new Notification repository backed by MongoDB.
func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{
		collection: db.Collection(notificationCollectionName),
	}
}

// Create inserts a new notification row.
func (r *mongoNotificationRepository) Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	if notification.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("notification requires userId")
	}
	if notification.Kind == "" {
		return primitive.NilObjectID, errors.New("notification requires a kind")
	}

	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted notification ID")
	}
	return insertedID, nil
}

// GetByUserID retrieves a user's notifications, newest first.
func (r *mongoNotificationRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Notification, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	var notifications []domain.Notification
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks a single notification as read, scoped to its owner.
func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "userId": userID}
	update := bson.M{"$set": bson.M{"readAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of a user.
func (r *mongoNotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{
		"userId": userID,
		"readAt": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"readAt": time.Now().UTC()}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// EnsureNotificationIndexes creates necessary indexes for the notifications collection.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "readAt", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
