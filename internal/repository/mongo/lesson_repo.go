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

const lessonCollectionName = "lessons"

// mongoLessonRepository implements repository.LessonRepository.
type mongoLessonRepository struct {
	collection *mongo.Collection
}

// NewMongoLessonRepository creates a new Lesson repository backed by MongoDB.
func NewMongoLessonRepository(db *mongo.Database) repository.LessonRepository {
	return &mongoLessonRepository{
		collection: db.Collection(lessonCollectionName),
	}
}

// Create inserts a new lesson. Overlap checking is the service layer's job;
// this only validates the slot itself.
func (r *mongoLessonRepository) Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error) {
	if lesson.CoachID == primitive.NilObjectID || lesson.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("lesson requires coachId and clientId")
	}
	if !lesson.StartsAt.Before(lesson.EndsAt) {
		return primitive.NilObjectID, errors.New("lesson must end after it starts")
	}

	lesson.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	if lesson.Status == "" {
		lesson.Status = domain.LessonScheduled
	}

	result, err := r.collection.InsertOne(ctx, lesson)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted lesson ID")
	}
	return insertedID, nil
}

// GetByID retrieves a lesson by its ID.
func (r *mongoLessonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// GetByCoachID retrieves a coach's lessons whose slot intersects [from, to].
func (r *mongoLessonRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return r.findInRange(ctx, bson.M{"coachId": coachID}, from, to)
}

// GetByClientID retrieves a client's lessons whose slot intersects [from, to].
func (r *mongoLessonRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return r.findInRange(ctx, bson.M{"clientId": clientID}, from, to)
}

func (r *mongoLessonRepository) findInRange(ctx context.Context, filter bson.M, from, to time.Time) ([]domain.Lesson, error) {
	filter["startsAt"] = bson.M{"$lt": to}
	filter["endsAt"] = bson.M{"$gt": from}

	var lessons []domain.Lesson
	findOptions := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

// FindOverlapping returns scheduled lessons of a coach that intersect the given
// slot. Back-to-back lessons (end == start) do not overlap. excludeID skips one
// lesson, for swap checks against the lesson being moved.
func (r *mongoLessonRepository) FindOverlapping(ctx context.Context, coachID primitive.ObjectID, start, end time.Time, excludeID primitive.ObjectID) ([]domain.Lesson, error) {
	filter := bson.M{
		"coachId":  coachID,
		"status":   domain.LessonScheduled,
		"startsAt": bson.M{"$lt": end},
		"endsAt":   bson.M{"$gt": start},
	}
	if excludeID != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	var lessons []domain.Lesson
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

// UpdateSlot moves a lesson to a new time slot. Used inside the swap
// transaction, so it must work with a session context.
func (r *mongoLessonRepository) UpdateSlot(ctx context.Context, id primitive.ObjectID, startsAt, endsAt time.Time) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"startsAt":  startsAt.UTC(),
			"endsAt":    endsAt.UTC(),
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus transitions a lesson's lifecycle status.
func (r *mongoLessonRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.LessonStatus) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureLessonIndexes creates necessary indexes for the lessons collection.
func EnsureLessonIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "startsAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "startsAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
