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

const (
	legacyCompletionCollectionName   = "drill_completions"
	programDrillCollectionName       = "program_drill_completions"
	exerciseCompletionCollectionName = "exercise_completions"
	routineExerciseCollectionName    = "routine_exercise_completions"
)

// mongoCompletionRepository implements repository.CompletionRepository over the
// four completion collections. The legacy drill_completions collection is read
// only; new completions always land in one of the scoped collections.
type mongoCompletionRepository struct {
	legacy           *mongo.Collection
	programDrills    *mongo.Collection
	exercises        *mongo.Collection
	routineExercises *mongo.Collection
}

// NewMongoCompletionRepository creates a new Completion repository backed by MongoDB.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		legacy:           db.Collection(legacyCompletionCollectionName),
		programDrills:    db.Collection(programDrillCollectionName),
		exercises:        db.Collection(exerciseCompletionCollectionName),
		routineExercises: db.Collection(routineExerciseCollectionName),
	}
}

// UpsertProgramDrill records a drill completion for one program assignment.
// The filter is the collection's natural key, so marking twice is a no-op and
// the original completedAt is preserved.
func (r *mongoCompletionRepository) UpsertProgramDrill(ctx context.Context, completion *domain.ProgramDrillCompletion) error {
	if completion.DrillID == primitive.NilObjectID ||
		completion.ProgramAssignmentID == primitive.NilObjectID ||
		completion.ClientID == primitive.NilObjectID {
		return errors.New("program drill completion requires drillId, programAssignmentId and clientId")
	}

	filter := bson.M{
		"drillId":             completion.DrillID,
		"programAssignmentId": completion.ProgramAssignmentID,
		"clientId":            completion.ClientID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"completedAt": time.Now().UTC(),
		},
	}

	_, err := r.programDrills.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// DeleteProgramDrill unmarks a drill. Deleting a row that doesn't exist is not
// an error; unmark is idempotent.
func (r *mongoCompletionRepository) DeleteProgramDrill(ctx context.Context, drillID, assignmentID, clientID primitive.ObjectID) error {
	filter := bson.M{
		"drillId":             drillID,
		"programAssignmentId": assignmentID,
		"clientId":            clientID,
	}
	_, err := r.programDrills.DeleteOne(ctx, filter)
	return err
}

// UpsertExercise records a date-scoped exercise completion.
func (r *mongoCompletionRepository) UpsertExercise(ctx context.Context, completion *domain.ExerciseCompletion) error {
	if completion.ExerciseID == primitive.NilObjectID || completion.ClientID == primitive.NilObjectID {
		return errors.New("exercise completion requires exerciseId and clientId")
	}
	if completion.Date == "" {
		return errors.New("exercise completion requires a date")
	}

	filter := bson.M{
		"clientId":       completion.ClientID,
		"exerciseId":     completion.ExerciseID,
		"programDrillId": completion.ProgramDrillID,
		"date":           completion.Date,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"completedAt": time.Now().UTC(),
		},
	}

	_, err := r.exercises.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// DeleteExercise unmarks a date-scoped exercise completion.
func (r *mongoCompletionRepository) DeleteExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID, programDrillID, date string) error {
	filter := bson.M{
		"clientId":       clientID,
		"exerciseId":     exerciseID,
		"programDrillId": programDrillID,
		"date":           date,
	}
	_, err := r.exercises.DeleteOne(ctx, filter)
	return err
}

// UpsertRoutineExercise records an exercise completion inside a standalone
// routine assignment.
func (r *mongoCompletionRepository) UpsertRoutineExercise(ctx context.Context, completion *domain.RoutineExerciseCompletion) error {
	if completion.RoutineAssignmentID == primitive.NilObjectID ||
		completion.ExerciseID == primitive.NilObjectID ||
		completion.ClientID == primitive.NilObjectID {
		return errors.New("routine exercise completion requires routineAssignmentId, exerciseId and clientId")
	}

	filter := bson.M{
		"routineAssignmentId": completion.RoutineAssignmentID,
		"exerciseId":          completion.ExerciseID,
		"clientId":            completion.ClientID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"completedAt": time.Now().UTC(),
		},
	}

	_, err := r.routineExercises.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// DeleteRoutineExercise unmarks a routine exercise completion.
func (r *mongoCompletionRepository) DeleteRoutineExercise(ctx context.Context, routineAssignmentID, exerciseID, clientID primitive.ObjectID) error {
	filter := bson.M{
		"routineAssignmentId": routineAssignmentID,
		"exerciseId":          exerciseID,
		"clientId":            clientID,
	}
	_, err := r.routineExercises.DeleteOne(ctx, filter)
	return err
}

// GetByClientID loads every completion row for a client across all four
// collections. The calendar snapshot loader calls this once per request.
func (r *mongoCompletionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*repository.ClientCompletions, error) {
	filter := bson.M{"clientId": clientID}
	out := &repository.ClientCompletions{}

	if err := findAll(ctx, r.legacy, filter, &out.Legacy); err != nil {
		return nil, err
	}
	if err := findAll(ctx, r.programDrills, filter, &out.ProgramDrills); err != nil {
		return nil, err
	}
	if err := findAll(ctx, r.exercises, filter, &out.Exercises); err != nil {
		return nil, err
	}
	if err := findAll(ctx, r.routineExercises, filter, &out.RoutineExercises); err != nil {
		return nil, err
	}
	return out, nil
}

func findAll(ctx context.Context, collection *mongo.Collection, filter bson.M, results interface{}) error {
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, results); err != nil {
		return err
	}
	return cursor.Err()
}

// EnsureCompletionIndexes creates the unique natural-key indexes for all four
// completion collections. The unique indexes are what make the upserts safe
// under concurrent marking.
func EnsureCompletionIndexes(ctx context.Context, db *mongo.Database) {
	ensure := func(collection *mongo.Collection, indexes []mongo.IndexModel) {
		_, err := collection.Indexes().CreateMany(ctx, indexes)
		if err != nil {
			// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
		}
	}

	ensure(db.Collection(legacyCompletionCollectionName), []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}}, Options: options.Index()},
	})
	ensure(db.Collection(programDrillCollectionName), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "drillId", Value: 1}, {Key: "programAssignmentId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "clientId", Value: 1}}, Options: options.Index()},
	})
	ensure(db.Collection(exerciseCompletionCollectionName), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "clientId", Value: 1},
				{Key: "exerciseId", Value: 1},
				{Key: "programDrillId", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	})
	ensure(db.Collection(routineExerciseCollectionName), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "routineAssignmentId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "clientId", Value: 1}}, Options: options.Index()},
	})
}
