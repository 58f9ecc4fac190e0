// internal/domain/completion.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel values stored in ExerciseCompletion.ProgramDrillID when the
// completion was recorded outside a program day. ProgramDrillID is a string
// (not an ObjectID) precisely because of these.
const (
	ProgramDrillStandaloneRoutine = "standalone-routine"
	ProgramDrillStandaloneDrill   = "standalone-drill"
)

// DrillCompletion is the legacy completion record: one row per (drill, client),
// no assignment or date granularity. Kept only as a resolver fallback.
type DrillCompletion struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DrillID   primitive.ObjectID `bson:"drillId" json:"drillId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgramDrillCompletion marks a drill done within one program assignment.
// Unique per (drillId, programAssignmentId).
type ProgramDrillCompletion struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DrillID             primitive.ObjectID `bson:"drillId" json:"drillId"`
	ProgramAssignmentID primitive.ObjectID `bson:"programAssignmentId" json:"programAssignmentId"`
	ClientID            primitive.ObjectID `bson:"clientId" json:"clientId"`
	CompletedAt         time.Time          `bson:"completedAt" json:"completedAt"`
}

// ExerciseCompletion is the most granular record: unique per calendar date.
// Date is stored as "YYYY-MM-DD" so two instants on the same local day always
// collide, regardless of timezone. ProgramDrillID is the hex of the parent
// drill, or one of the standalone sentinels.
type ExerciseCompletion struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID       primitive.ObjectID `bson:"clientId" json:"clientId"`
	ExerciseID     primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ProgramDrillID string             `bson:"programDrillId" json:"programDrillId"`
	Date           string             `bson:"date" json:"date"` // YYYY-MM-DD
	CompletedAt    time.Time          `bson:"completedAt" json:"completedAt"`
}

// RoutineExerciseCompletion marks an exercise done inside a standalone routine
// assignment. Unique per (routineAssignmentId, exerciseId, clientId).
type RoutineExerciseCompletion struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineAssignmentID primitive.ObjectID `bson:"routineAssignmentId" json:"routineAssignmentId"`
	ExerciseID          primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ClientID            primitive.ObjectID `bson:"clientId" json:"clientId"`
	CompletedAt         time.Time          `bson:"completedAt" json:"completedAt"`
}
