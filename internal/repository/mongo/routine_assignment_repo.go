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

const routineAssignmentCollectionName = "routine_assignments"

// mongoRoutineAssignmentRepository implements repository.RoutineAssignmentRepository.
type mongoRoutineAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineAssignmentRepository creates a new RoutineAssignment repository backed by MongoDB.
func NewMongoRoutineAssignmentRepository(db *mongo.Database) repository.RoutineAssignmentRepository {
	return &mongoRoutineAssignmentRepository{
		collection: db.Collection(routineAssignmentCollectionName),
	}
}

// Create inserts a new routine assignment.
func (r *mongoRoutineAssignmentRepository) Create(ctx context.Context, assignment *domain.RoutineAssignment) (primitive.ObjectID, error) {
	if assignment.RoutineID == primitive.NilObjectID ||
		assignment.ClientID == primitive.NilObjectID ||
		assignment.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("routine assignment requires routineId, clientId and coachId")
	}
	if assignment.EndDate.Before(assignment.StartDate) {
		return primitive.NilObjectID, errors.New("routine assignment end date precedes start date")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a routine assignment by its ID.
func (r *mongoRoutineAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineAssignment, error) {
	var assignment domain.RoutineAssignment
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByClientID retrieves all routine assignments for a client.
func (r *mongoRoutineAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error) {
	return r.findSorted(ctx, bson.M{"clientId": clientID})
}

// GetByCoachID retrieves all routine assignments a coach has made.
func (r *mongoRoutineAssignmentRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.RoutineAssignment, error) {
	return r.findSorted(ctx, bson.M{"coachId": coachID})
}

func (r *mongoRoutineAssignmentRepository) findSorted(ctx context.Context, filter bson.M) ([]domain.RoutineAssignment, error) {
	var assignments []domain.RoutineAssignment
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Delete removes a routine assignment, scoped to the coach who made it.
func (r *mongoRoutineAssignmentRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
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

// EnsureRoutineAssignmentIndexes creates necessary indexes for the routine_assignments collection.
func EnsureRoutineAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
