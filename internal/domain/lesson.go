package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonStatus tracks the lesson lifecycle.
type LessonStatus string

const (
	LessonScheduled LessonStatus = "scheduled"
	LessonCancelled LessonStatus = "cancelled"
	LessonCompleted LessonStatus = "completed"
)

// Lesson is a scheduled one-on-one session between a coach and a client.
// Scheduling a lesson over a program day typically creates a
// ProgramReplacement with an empty substitute (the day is deleted).
type Lesson struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	StartsAt  time.Time          `bson:"startsAt" json:"startsAt"`
	EndsAt    time.Time          `bson:"endsAt" json:"endsAt"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	Status    LessonStatus       `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps reports whether two time slots intersect. Back-to-back lessons
// (end == start) do not conflict.
func (l *Lesson) Overlaps(start, end time.Time) bool {
	return l.StartsAt.Before(end) && start.Before(l.EndsAt)
}
