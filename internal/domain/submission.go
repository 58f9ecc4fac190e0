package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionStatus tracks the review lifecycle of a submitted video.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionReviewed SubmissionStatus = "reviewed"
)

// VideoSubmission stores metadata about a drill video a client uploaded for
// review. The file itself lives in S3; only the object key is kept here.
type VideoSubmission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized
	DrillID     primitive.ObjectID `bson:"drillId" json:"drillId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	Status      SubmissionStatus   `bson:"status" json:"status"`
	Feedback    string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
	ReviewedAt  *time.Time         `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}
