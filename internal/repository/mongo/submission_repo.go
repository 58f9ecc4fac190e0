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

const submissionCollectionName = "video_submissions"

// mongoVideoSubmissionRepository implements repository.VideoSubmissionRepository.
type mongoVideoSubmissionRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoSubmissionRepository creates a new VideoSubmission repository backed by MongoDB.
func NewMongoVideoSubmissionRepository(db *mongo.Database) repository.VideoSubmissionRepository {
	return &mongoVideoSubmissionRepository{
		collection: db.Collection(submissionCollectionName),
	}
}

// Create inserts submission metadata after the client confirms the S3 upload.
func (r *mongoVideoSubmissionRepository) Create(ctx context.Context, submission *domain.VideoSubmission) (primitive.ObjectID, error) {
	if submission.ClientID == primitive.NilObjectID || submission.DrillID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("submission requires clientId and drillId")
	}
	if submission.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("submission requires s3ObjectKey")
	}

	submission.ID = primitive.NewObjectID()
	submission.UploadedAt = time.Now().UTC()
	if submission.Status == "" {
		submission.Status = domain.SubmissionPending
	}

	result, err := r.collection.InsertOne(ctx, submission)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted submission ID")
	}
	return insertedID, nil
}

// GetByID retrieves a submission by its ID.
func (r *mongoVideoSubmissionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.VideoSubmission, error) {
	var submission domain.VideoSubmission
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// GetByCoachID retrieves submissions addressed to a coach, optionally filtered
// by status (empty status means all).
func (r *mongoVideoSubmissionRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID, status domain.SubmissionStatus) ([]domain.VideoSubmission, error) {
	filter := bson.M{"coachId": coachID}
	if status != "" {
		filter["status"] = status
	}
	return r.findSorted(ctx, filter)
}

// GetByClientID retrieves a client's own submissions.
func (r *mongoVideoSubmissionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoSubmission, error) {
	return r.findSorted(ctx, bson.M{"clientId": clientID})
}

func (r *mongoVideoSubmissionRepository) findSorted(ctx context.Context, filter bson.M) ([]domain.VideoSubmission, error) {
	var submissions []domain.VideoSubmission
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}

// SetReview records the coach's feedback and flips the status to reviewed.
func (r *mongoVideoSubmissionRepository) SetReview(ctx context.Context, id primitive.ObjectID, feedback string, reviewedAt time.Time) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":     domain.SubmissionReviewed,
			"feedback":   feedback,
			"reviewedAt": reviewedAt.UTC(),
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

// EnsureSubmissionIndexes creates necessary indexes for the video_submissions collection.
func EnsureSubmissionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "status", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
