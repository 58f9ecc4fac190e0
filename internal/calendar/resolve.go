package calendar

import (
	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionIndex holds one client's completion rows from all four record
// types, keyed for O(1) resolution. Building the index up front makes
// Resolve a pure function of (item, context); it cannot depend on query
// order or iteration side effects.
type CompletionIndex struct {
	legacy          map[primitive.ObjectID]bool
	programDrill    map[programDrillKey]bool
	exercise        map[exerciseKey]bool
	routineExercise map[routineExerciseKey]bool
}

type programDrillKey struct {
	DrillID      primitive.ObjectID
	AssignmentID primitive.ObjectID
}

type exerciseKey struct {
	ExerciseID     primitive.ObjectID
	ProgramDrillID string // drill hex or a standalone sentinel
	Date           string // YYYY-MM-DD
}

type routineExerciseKey struct {
	RoutineAssignmentID primitive.ObjectID
	ExerciseID          primitive.ObjectID
}

// BuildCompletionIndex indexes the given rows. Duplicate rows are harmless:
// the index stores a boolean, so re-inserting an existing completion cannot
// change any resolution outcome.
func BuildCompletionIndex(
	legacy []domain.DrillCompletion,
	programDrills []domain.ProgramDrillCompletion,
	exercises []domain.ExerciseCompletion,
	routineExercises []domain.RoutineExerciseCompletion,
) CompletionIndex {
	idx := CompletionIndex{
		legacy:          make(map[primitive.ObjectID]bool, len(legacy)),
		programDrill:    make(map[programDrillKey]bool, len(programDrills)),
		exercise:        make(map[exerciseKey]bool, len(exercises)),
		routineExercise: make(map[routineExerciseKey]bool, len(routineExercises)),
	}
	for _, c := range legacy {
		idx.legacy[c.DrillID] = true
	}
	for _, c := range programDrills {
		idx.programDrill[programDrillKey{DrillID: c.DrillID, AssignmentID: c.ProgramAssignmentID}] = true
	}
	for _, c := range exercises {
		idx.exercise[exerciseKey{ExerciseID: c.ExerciseID, ProgramDrillID: c.ProgramDrillID, Date: c.Date}] = true
	}
	for _, c := range routineExercises {
		idx.routineExercise[routineExerciseKey{RoutineAssignmentID: c.RoutineAssignmentID, ExerciseID: c.ExerciseID}] = true
	}
	return idx
}

// ResolveContext carries how the item was reached: which program assignment
// (for program items) and which date the projection is for.
type ResolveContext struct {
	AssignmentID primitive.ObjectID
	Date         Date
}

// Resolve determines whether an expanded item is completed, trying keys in
// the documented fallback order and returning true on first match. It is
// total: a miss across every key is simply "not completed", and unknown kinds
// resolve to false rather than panicking.
func (idx CompletionIndex) Resolve(item Item, rc ResolveContext) bool {
	date := rc.Date.String()

	switch item.Kind {
	case KindRoutineExercise:
		// Program-embedded routines complete at the parent drill level.
		if idx.programDrill[programDrillKey{DrillID: item.DrillID, AssignmentID: rc.AssignmentID}] {
			return true
		}
		return idx.exercise[exerciseKey{
			ExerciseID:     item.ExerciseID,
			ProgramDrillID: item.DrillID.Hex(),
			Date:           date,
		}]

	case KindProgramDrill:
		if idx.programDrill[programDrillKey{DrillID: item.DrillID, AssignmentID: rc.AssignmentID}] {
			return true
		}
		if idx.legacy[item.DrillID] {
			return true
		}
		// Date-scoped rows for a plain drill carry no parent drill; older
		// clients wrote an empty programDrillId, newer ones the sentinel.
		if idx.exercise[exerciseKey{ExerciseID: item.DrillID, ProgramDrillID: "", Date: date}] {
			return true
		}
		return idx.exercise[exerciseKey{
			ExerciseID:     item.DrillID,
			ProgramDrillID: domain.ProgramDrillStandaloneDrill,
			Date:           date,
		}]

	case KindStandaloneExercise:
		if idx.routineExercise[routineExerciseKey{
			RoutineAssignmentID: item.RoutineAssignmentID,
			ExerciseID:          item.ExerciseID,
		}] {
			return true
		}
		return idx.exercise[exerciseKey{
			ExerciseID:     item.ExerciseID,
			ProgramDrillID: domain.ProgramDrillStandaloneRoutine,
			Date:           date,
		}]
	}
	return false
}
