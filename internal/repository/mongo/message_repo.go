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

const messageCollectionName = "messages"

// mongoMessageRepository implements repository.MessageRepository.
type mongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new Message repository backed by MongoDB.
func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messageCollectionName),
	}
}

// Create inserts a new message.
func (r *mongoMessageRepository) Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error) {
	if message.SenderID == primitive.NilObjectID || message.ReceiverID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("message requires senderId and receiverId")
	}
	if message.Body == "" {
		return primitive.NilObjectID, errors.New("message body is empty")
	}

	message.ID = primitive.NewObjectID()
	message.SentAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted message ID")
	}
	return insertedID, nil
}

// GetThread retrieves messages exchanged between two users, newest first,
// paginated by the sentAt cursor.
func (r *mongoMessageRepository) GetThread(ctx context.Context, userA, userB primitive.ObjectID, before time.Time, limit int64) ([]domain.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"senderId": userA, "receiverId": userB},
			{"senderId": userB, "receiverId": userA},
		},
		"sentAt": bson.M{"$lt": before},
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetLimit(limit)

	var messages []domain.Message
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkThreadRead marks every unread message from one sender to the receiver.
func (r *mongoMessageRepository) MarkThreadRead(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	filter := bson.M{
		"receiverId": receiverID,
		"senderId":   senderID,
		"readAt":     bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"readAt": time.Now().UTC()}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// CountUnread counts messages addressed to a user that have no readAt yet.
func (r *mongoMessageRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"receiverId": userID,
		"readAt":     bson.M{"$exists": false},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureMessageIndexes creates necessary indexes for the messages collection.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}, {Key: "sentAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "receiverId", Value: 1}, {Key: "readAt", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
