package calendar

import (
	"fmt"

	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemKind tags how an expanded item was reached. The completion resolver
// branches on this tag; nothing ever parses provenance back out of the
// composite ID string.
type ItemKind string

const (
	// KindProgramDrill is a regular drill inside a program day.
	KindProgramDrill ItemKind = "program_drill"
	// KindRoutineExercise is an exercise expanded from a routine-typed drill
	// inside a program day. Completion is tracked against the parent drill.
	KindRoutineExercise ItemKind = "routine_exercise"
	// KindStandaloneExercise is an exercise of a directly assigned routine,
	// outside any program. Completion is tracked per exercise.
	KindStandaloneExercise ItemKind = "standalone_exercise"
)

// Item is one expanded entry of a projected day.
type Item struct {
	Kind ItemKind `json:"kind"`

	// ID is the stable client-facing identity. For routine exercises it is
	// the composite "{drillId}-routine-{exerciseId}", for standalone routine
	// exercises "{assignmentId}-{exerciseId}".
	ID string `json:"id"`

	Title         string `json:"title"`
	Sets          int    `json:"sets,omitempty"`
	Reps          string `json:"reps,omitempty"`
	Tempo         string `json:"tempo,omitempty"`
	VideoURL      string `json:"videoUrl,omitempty"`
	SupersetGroup string `json:"supersetGroup,omitempty"`
	CoachNotes    string `json:"coachNotes,omitempty"`

	// Typed back-references. DrillID is the drill itself for KindProgramDrill
	// and the parent drill for KindRoutineExercise.
	DrillID             primitive.ObjectID `json:"-"`
	ExerciseID          primitive.ObjectID `json:"-"`
	RoutineID           primitive.ObjectID `json:"-"`
	RoutineAssignmentID primitive.ObjectID `json:"-"`

	Completed bool `json:"completed"`
}

// ExpandDay flattens a program day's drill list, replacing every routine
// reference with the routine's ordered exercises. Drill order is preserved;
// expansion of the same day is deterministic (property: identical ordered
// composite IDs on every call). A routine reference whose routine no longer
// exists is skipped and counted as orphaned.
func ExpandDay(day *domain.Day, routines map[primitive.ObjectID]*domain.Routine) (items []Item, orphaned int) {
	for i := range day.Drills {
		drill := &day.Drills[i]
		if !drill.IsRoutineRef() {
			items = append(items, Item{
				Kind:       KindProgramDrill,
				ID:         drill.ID.Hex(),
				Title:      drill.Title,
				Sets:       drill.Sets,
				Reps:       drill.Reps,
				Tempo:      drill.Tempo,
				VideoURL:   drill.VideoURL,
				CoachNotes: drill.CoachNotes,
				DrillID:    drill.ID,
			})
			continue
		}

		routine := routines[*drill.RoutineID]
		if routine == nil {
			orphaned++
			continue
		}
		for _, ex := range routine.OrderedExercises() {
			items = append(items, Item{
				Kind:          KindRoutineExercise,
				ID:            fmt.Sprintf("%s-routine-%s", drill.ID.Hex(), ex.ID.Hex()),
				Title:         ex.Title,
				Sets:          ex.Sets,
				Reps:          ex.Reps,
				Tempo:         ex.Tempo,
				VideoURL:      ex.VideoURL,
				SupersetGroup: ex.SupersetGroup,
				CoachNotes:    ex.CoachNotes,
				DrillID:       drill.ID,
				ExerciseID:    ex.ID,
				RoutineID:     routine.ID,
			})
		}
	}
	return items, orphaned
}

// ExpandRoutineAssignment expands a directly assigned routine's exercises.
// There is no program-day wrapper and completion is per exercise.
func ExpandRoutineAssignment(ra *domain.RoutineAssignment, routine *domain.Routine) []Item {
	var items []Item
	for _, ex := range routine.OrderedExercises() {
		items = append(items, Item{
			Kind:                KindStandaloneExercise,
			ID:                  fmt.Sprintf("%s-%s", ra.ID.Hex(), ex.ID.Hex()),
			Title:               ex.Title,
			Sets:                ex.Sets,
			Reps:                ex.Reps,
			Tempo:               ex.Tempo,
			VideoURL:            ex.VideoURL,
			SupersetGroup:       ex.SupersetGroup,
			CoachNotes:          ex.CoachNotes,
			ExerciseID:          ex.ID,
			RoutineID:           routine.ID,
			RoutineAssignmentID: ra.ID,
		})
	}
	return items
}
