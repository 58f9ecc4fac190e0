package calendar

import (
	"testing"

	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func emptyIndex() CompletionIndex {
	return BuildCompletionIndex(nil, nil, nil, nil)
}

func TestResolveTotality(t *testing.T) {
	// Every kind, empty index, arbitrary IDs: never panics, always false.
	idx := emptyIndex()
	rc := ResolveContext{AssignmentID: primitive.NewObjectID(), Date: Date{2024, 3, 5}}

	items := []Item{
		{Kind: KindProgramDrill, DrillID: primitive.NewObjectID()},
		{Kind: KindRoutineExercise, DrillID: primitive.NewObjectID(), ExerciseID: primitive.NewObjectID()},
		{Kind: KindStandaloneExercise, RoutineAssignmentID: primitive.NewObjectID(), ExerciseID: primitive.NewObjectID()},
		{Kind: ItemKind("unknown")},
	}
	for _, item := range items {
		if idx.Resolve(item, rc) {
			t.Errorf("empty index resolved %s as completed", item.Kind)
		}
	}
}

func TestResolveProgramDrillFallbackOrder(t *testing.T) {
	drillID := primitive.NewObjectID()
	assignmentID := primitive.NewObjectID()
	rc := ResolveContext{AssignmentID: assignmentID, Date: Date{2024, 3, 5}}
	item := Item{Kind: KindProgramDrill, DrillID: drillID}

	// Primary: ProgramDrillCompletion keyed on (drill, assignment).
	idx := BuildCompletionIndex(nil, []domain.ProgramDrillCompletion{
		{DrillID: drillID, ProgramAssignmentID: assignmentID},
	}, nil, nil)
	if !idx.Resolve(item, rc) {
		t.Error("primary key should resolve completed")
	}

	// The same row under a different assignment must not leak through.
	other := ResolveContext{AssignmentID: primitive.NewObjectID(), Date: rc.Date}
	if idx.Resolve(item, other) {
		t.Error("completion is scoped to its assignment")
	}

	// Fallback 1: legacy DrillCompletion.
	idx = BuildCompletionIndex([]domain.DrillCompletion{{DrillID: drillID}}, nil, nil, nil)
	if !idx.Resolve(item, rc) {
		t.Error("legacy fallback should resolve completed")
	}

	// Fallback 2: date-scoped ExerciseCompletion with exerciseId == drillId.
	idx = BuildCompletionIndex(nil, nil, []domain.ExerciseCompletion{
		{ExerciseID: drillID, ProgramDrillID: "", Date: "2024-03-05"},
	}, nil)
	if !idx.Resolve(item, rc) {
		t.Error("date-scoped fallback should resolve completed on its date")
	}
	nextDay := ResolveContext{AssignmentID: assignmentID, Date: Date{2024, 3, 6}}
	if idx.Resolve(item, nextDay) {
		t.Error("date-scoped completion must not apply to a different date")
	}

	// The standalone-drill sentinel also counts for a plain drill.
	idx = BuildCompletionIndex(nil, nil, []domain.ExerciseCompletion{
		{ExerciseID: drillID, ProgramDrillID: domain.ProgramDrillStandaloneDrill, Date: "2024-03-05"},
	}, nil)
	if !idx.Resolve(item, rc) {
		t.Error("standalone-drill sentinel should resolve completed")
	}
}

func TestResolveRoutineExerciseInheritsParentDrill(t *testing.T) {
	drillID := primitive.NewObjectID()
	assignmentID := primitive.NewObjectID()
	e1, e2 := primitive.NewObjectID(), primitive.NewObjectID()
	rc := ResolveContext{AssignmentID: assignmentID, Date: Date{2024, 3, 5}}

	// One ProgramDrillCompletion on the parent drill completes every
	// exercise expanded from it.
	idx := BuildCompletionIndex(nil, []domain.ProgramDrillCompletion{
		{DrillID: drillID, ProgramAssignmentID: assignmentID},
	}, nil, nil)

	for _, exID := range []primitive.ObjectID{e1, e2} {
		item := Item{Kind: KindRoutineExercise, DrillID: drillID, ExerciseID: exID}
		if !idx.Resolve(item, rc) {
			t.Errorf("exercise %s should inherit completion from parent drill", exID.Hex())
		}
	}

	// Fallback: per-exercise date-scoped row keyed by the parent drill hex.
	idx = BuildCompletionIndex(nil, nil, []domain.ExerciseCompletion{
		{ExerciseID: e1, ProgramDrillID: drillID.Hex(), Date: "2024-03-05"},
	}, nil)
	if !idx.Resolve(Item{Kind: KindRoutineExercise, DrillID: drillID, ExerciseID: e1}, rc) {
		t.Error("exercise-level fallback should resolve completed")
	}
	if idx.Resolve(Item{Kind: KindRoutineExercise, DrillID: drillID, ExerciseID: e2}, rc) {
		t.Error("fallback is per exercise, e2 has no row")
	}
}

func TestResolveStandaloneExercise(t *testing.T) {
	raID := primitive.NewObjectID()
	exID := primitive.NewObjectID()
	rc := ResolveContext{Date: Date{2024, 3, 5}}
	item := Item{Kind: KindStandaloneExercise, RoutineAssignmentID: raID, ExerciseID: exID}

	idx := BuildCompletionIndex(nil, nil, nil, []domain.RoutineExerciseCompletion{
		{RoutineAssignmentID: raID, ExerciseID: exID},
	})
	if !idx.Resolve(item, rc) {
		t.Error("routine-exercise completion should resolve completed")
	}

	idx = BuildCompletionIndex(nil, nil, []domain.ExerciseCompletion{
		{ExerciseID: exID, ProgramDrillID: domain.ProgramDrillStandaloneRoutine, Date: "2024-03-05"},
	}, nil)
	if !idx.Resolve(item, rc) {
		t.Error("standalone-routine sentinel fallback should resolve completed")
	}
}

func TestDuplicateRowsDoNotChangeOutcome(t *testing.T) {
	// Upsert semantics upstream mean duplicates should be impossible, but a
	// duplicate row in the index must still be a no-op.
	drillID := primitive.NewObjectID()
	assignmentID := primitive.NewObjectID()
	row := domain.ProgramDrillCompletion{DrillID: drillID, ProgramAssignmentID: assignmentID}

	once := BuildCompletionIndex(nil, []domain.ProgramDrillCompletion{row}, nil, nil)
	twice := BuildCompletionIndex(nil, []domain.ProgramDrillCompletion{row, row}, nil, nil)

	item := Item{Kind: KindProgramDrill, DrillID: drillID}
	rc := ResolveContext{AssignmentID: assignmentID, Date: Date{2024, 3, 5}}
	if once.Resolve(item, rc) != twice.Resolve(item, rc) {
		t.Error("duplicate completion rows changed the resolution outcome")
	}
}
