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

const routineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository.
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new Routine repository backed by MongoDB.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

// Create inserts a new routine.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if routine.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("routine requires coachId")
	}
	if routine.Name == "" {
		return primitive.NilObjectID, errors.New("routine requires a name")
	}

	routine.ID = primitive.NewObjectID()
	ensureExerciseIDs(routine)
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, routine)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine ID")
	}
	return insertedID, nil
}

// GetByID retrieves a routine by its ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	var routine domain.Routine
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// GetByIDs retrieves several routines at once (snapshot loading).
func (r *mongoRoutineRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Routine, error) {
	if len(ids) == 0 {
		return []domain.Routine{}, nil
	}

	var routines []domain.Routine
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}

// GetByCoachID retrieves all routines authored by a coach, newest first.
func (r *mongoRoutineRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Routine, error) {
	var routines []domain.Routine
	filter := bson.M{"coachId": coachID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}

// Update replaces the routine's mutable fields. Exercise IDs are preserved
// because completion rows reference them.
func (r *mongoRoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	if routine.ID == primitive.NilObjectID {
		return errors.New("routine ID is required for update")
	}
	ensureExerciseIDs(routine)

	filter := bson.M{"_id": routine.ID, "coachId": routine.CoachID}
	update := bson.M{
		"$set": bson.M{
			"name":        routine.Name,
			"description": routine.Description,
			"exercises":   routine.Exercises,
			"updatedAt":   time.Now().UTC(),
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

// Delete removes a routine, scoped to its owning coach. Program drills and
// routine assignments that still reference it become orphans; the calendar
// skips and flags those rather than erroring.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "coachId": coachID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func ensureExerciseIDs(routine *domain.Routine) {
	for i := range routine.Exercises {
		if routine.Exercises[i].ID == primitive.NilObjectID {
			routine.Exercises[i].ID = primitive.NewObjectID()
		}
	}
}

// EnsureRoutineIndexes creates necessary indexes for the routines collection.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
