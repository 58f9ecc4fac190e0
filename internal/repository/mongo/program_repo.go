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

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository.
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new program. Embedded weeks, days and drills get ObjectIDs
// assigned here if the service layer didn't set them already.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("program requires coachId")
	}
	if program.Title == "" {
		return primitive.NilObjectID, errors.New("program requires a title")
	}

	program.ID = primitive.NewObjectID()
	ensureProgramSubIDs(program)
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted program ID")
	}
	return insertedID, nil
}

// GetByID retrieves a program with its full embedded tree.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByIDs retrieves several programs at once (snapshot loading).
func (r *mongoProgramRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error) {
	if len(ids) == 0 {
		return []domain.Program{}, nil
	}

	var programs []domain.Program
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}

// GetByCoachID retrieves all programs authored by a coach, newest first.
func (r *mongoProgramRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	var programs []domain.Program
	filter := bson.M{"coachId": coachID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}

// Update replaces the program's mutable fields, including the whole embedded
// week tree. Completion rows reference drill IDs inside the tree, so callers
// must preserve IDs of drills they only edit.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for update")
	}
	ensureProgramSubIDs(program)

	filter := bson.M{"_id": program.ID, "coachId": program.CoachID}
	update := bson.M{
		"$set": bson.M{
			"title":         program.Title,
			"description":   program.Description,
			"durationWeeks": program.DurationWeeks,
			"weeks":         program.Weeks,
			"updatedAt":     time.Now().UTC(),
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

// Delete removes a program, scoped to its owning coach.
func (r *mongoProgramRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
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

// ensureProgramSubIDs assigns ObjectIDs to any embedded week, day or drill that
// doesn't have one yet. Existing IDs are never touched: completions point at them.
func ensureProgramSubIDs(program *domain.Program) {
	for wi := range program.Weeks {
		week := &program.Weeks[wi]
		if week.ID == primitive.NilObjectID {
			week.ID = primitive.NewObjectID()
		}
		for di := range week.Days {
			day := &week.Days[di]
			if day.ID == primitive.NilObjectID {
				day.ID = primitive.NewObjectID()
			}
			for xi := range day.Drills {
				if day.Drills[xi].ID == primitive.NilObjectID {
					day.Drills[xi].ID = primitive.NewObjectID()
				}
			}
		}
	}
}

// EnsureProgramIndexes creates necessary indexes for the programs collection.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
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
