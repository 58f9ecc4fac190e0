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

const replacementCollectionName = "program_replacements"

// mongoReplacementRepository implements repository.ReplacementRepository.
type mongoReplacementRepository struct {
	collection *mongo.Collection
}

// NewMongoReplacementRepository creates a new Replacement repository backed by MongoDB.
func NewMongoReplacementRepository(db *mongo.Database) repository.ReplacementRepository {
	return &mongoReplacementRepository{
		collection: db.Collection(replacementCollectionName),
	}
}

// Create inserts a new replacement. ReplacedDate is normalized to UTC midnight
// so two replacements for the same calendar date always collide in lookups.
func (r *mongoReplacementRepository) Create(ctx context.Context, replacement *domain.ProgramReplacement) (primitive.ObjectID, error) {
	if replacement.AssignmentID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("replacement requires assignmentId")
	}
	if replacement.ReplacedDate.IsZero() {
		return primitive.NilObjectID, errors.New("replacement requires replacedDate")
	}

	replacement.ID = primitive.NewObjectID()
	replacement.ReplacedDate = utcMidnight(replacement.ReplacedDate)
	replacement.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, replacement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted replacement ID")
	}
	return insertedID, nil
}

// GetByAssignmentIDs retrieves every replacement for a set of assignments
// (snapshot loading groups them by assignment afterwards).
func (r *mongoReplacementRepository) GetByAssignmentIDs(ctx context.Context, assignmentIDs []primitive.ObjectID) ([]domain.ProgramReplacement, error) {
	if len(assignmentIDs) == 0 {
		return []domain.ProgramReplacement{}, nil
	}

	var replacements []domain.ProgramReplacement
	filter := bson.M{"assignmentId": bson.M{"$in": assignmentIDs}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &replacements); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return replacements, nil
}

// GetByLessonID finds the replacement a lesson created, if any. Lesson swaps
// and cancellations use it to keep the calendar override in step.
func (r *mongoReplacementRepository) GetByLessonID(ctx context.Context, lessonID string) (*domain.ProgramReplacement, error) {
	var replacement domain.ProgramReplacement
	filter := bson.M{"lessonId": lessonID}

	err := r.collection.FindOne(ctx, filter).Decode(&replacement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &replacement, nil
}

// UpdateDate moves a replacement to a different calendar date.
func (r *mongoReplacementRepository) UpdateDate(ctx context.Context, id primitive.ObjectID, replacedDate time.Time) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"replacedDate": utcMidnight(replacedDate)}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a replacement, restoring the base program day.
func (r *mongoReplacementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func utcMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EnsureReplacementIndexes creates necessary indexes for the program_replacements collection.
func EnsureReplacementIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One replacement per assignment per date.
			Keys:    bson.D{{Key: "assignmentId", Value: 1}, {Key: "replacedDate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "lessonId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
