package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramAssignment links a client to a program. StartDate is date-only (local
// midnight); when absent the assignment date is used as the effective start.
// An assignment is active while CompletedAt is nil; closing is a soft close, the
// row is kept for history.
type ProgramAssignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID   primitive.ObjectID `bson:"programId" json:"programId"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized for roster queries
	AssignedAt  time.Time          `bson:"assignedAt" json:"assignedAt"`
	StartDate   *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// IsActive reports whether this assignment still projects onto the calendar.
func (a *ProgramAssignment) IsActive() bool {
	return a.CompletedAt == nil
}

// ProgramReplacement overrides a single calendar date of a program assignment.
// When LessonID is empty the original day is deleted outright (a lesson took
// its place); when SubstituteProgramID is set and the date falls inside
// [SubstituteStart, SubstituteEnd] the substitute program's schedule is used
// instead of the base program.
type ProgramReplacement struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AssignmentID        primitive.ObjectID  `bson:"assignmentId" json:"assignmentId"`
	ReplacedDate        time.Time           `bson:"replacedDate" json:"replacedDate"` // Compared as a UTC calendar date
	LessonID            string              `bson:"lessonId,omitempty" json:"lessonId,omitempty"`
	SubstituteProgramID *primitive.ObjectID `bson:"substituteProgramId,omitempty" json:"substituteProgramId,omitempty"`
	SubstituteStart     *time.Time          `bson:"substituteStart,omitempty" json:"substituteStart,omitempty"`
	SubstituteEnd       *time.Time          `bson:"substituteEnd,omitempty" json:"substituteEnd,omitempty"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
}

// RoutineAssignment links a client to a routine directly over a date range,
// independent of any program's week/day grid.
type RoutineAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID primitive.ObjectID `bson:"routineId" json:"routineId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
