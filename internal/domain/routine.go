// internal/domain/routine.go
package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a coach-authored, reusable ordered list of exercises. It can be
// embedded in a program day via a routine-typed Drill, or assigned to a client
// directly through a RoutineAssignment.
type Routine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Exercises   []Exercise         `bson:"exercises" json:"exercises"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Exercise is one entry of a routine. Same execution shape as an inline drill.
type Exercise struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Order         int                `bson:"order" json:"order"`
	Title         string             `bson:"title" json:"title"`
	Sets          int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps          string             `bson:"reps,omitempty" json:"reps,omitempty"`
	Tempo         string             `bson:"tempo,omitempty" json:"tempo,omitempty"`
	VideoURL      string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	SupersetGroup string             `bson:"supersetGroup,omitempty" json:"supersetGroup,omitempty"`
	CoachNotes    string             `bson:"coachNotes,omitempty" json:"coachNotes,omitempty"`
}

// OrderedExercises returns the exercises sorted by their stored order without
// mutating the routine. Expansion order must be deterministic.
func (r *Routine) OrderedExercises() []Exercise {
	out := make([]Exercise, len(r.Exercises))
	copy(out, r.Exercises)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
