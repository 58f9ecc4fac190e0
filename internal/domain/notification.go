package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationKind tags what triggered an in-app notification.
type NotificationKind string

const (
	NotifyLessonScheduled NotificationKind = "lesson_scheduled"
	NotifyLessonSwapped   NotificationKind = "lesson_swapped"
	NotifyLessonCancelled NotificationKind = "lesson_cancelled"
	NotifyNewMessage      NotificationKind = "new_message"
	NotifyVideoSubmitted  NotificationKind = "video_submitted"
	NotifyVideoReviewed   NotificationKind = "video_reviewed"
)

// Notification is an in-app notification row. Writing one is a best-effort
// side effect; failures never abort the primary mutation.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Kind      NotificationKind   `bson:"kind" json:"kind"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body,omitempty" json:"body,omitempty"`
	ReadAt    *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
