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

const programAssignmentCollectionName = "program_assignments"

// mongoProgramAssignmentRepository implements repository.ProgramAssignmentRepository.
type mongoProgramAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramAssignmentRepository creates a new ProgramAssignment repository backed by MongoDB.
func NewMongoProgramAssignmentRepository(db *mongo.Database) repository.ProgramAssignmentRepository {
	return &mongoProgramAssignmentRepository{
		collection: db.Collection(programAssignmentCollectionName),
	}
}

// Create inserts a new program assignment.
func (r *mongoProgramAssignmentRepository) Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error) {
	if assignment.ProgramID == primitive.NilObjectID ||
		assignment.ClientID == primitive.NilObjectID ||
		assignment.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires programId, clientId and coachId")
	}

	assignment.ID = primitive.NewObjectID()
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoProgramAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error) {
	var assignment domain.ProgramAssignment
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

// GetByClientID retrieves all assignments for a client, closed ones included.
func (r *mongoProgramAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	return r.findSorted(ctx, bson.M{"clientId": clientID})
}

// GetActiveByClientID retrieves only the assignments still projecting onto the
// calendar (no completedAt).
func (r *mongoProgramAssignmentRepository) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	filter := bson.M{
		"clientId":    clientID,
		"completedAt": bson.M{"$exists": false},
	}
	return r.findSorted(ctx, filter)
}

// GetByCoachID retrieves all assignments a coach has made.
func (r *mongoProgramAssignmentRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	return r.findSorted(ctx, bson.M{"coachId": coachID})
}

func (r *mongoProgramAssignmentRepository) findSorted(ctx context.Context, filter bson.M) ([]domain.ProgramAssignment, error) {
	var assignments []domain.ProgramAssignment
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

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

// Close soft-closes an assignment by setting completedAt. The row stays for
// history; closing an already closed assignment is a no-op.
func (r *mongoProgramAssignmentRepository) Close(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"completedAt": at.UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgramAssignmentIndexes creates necessary indexes for the program_assignments collection.
func EnsureProgramAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "assignedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
