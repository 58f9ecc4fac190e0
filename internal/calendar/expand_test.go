package calendar

import (
	"fmt"
	"reflect"
	"testing"

	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExpandDayPlainDrills(t *testing.T) {
	d1 := domain.Drill{ID: primitive.NewObjectID(), Type: domain.DrillTypeExercise, Order: 0, Title: "Back Squat", Sets: 5, Reps: "5"}
	d2 := domain.Drill{ID: primitive.NewObjectID(), Type: domain.DrillTypeExercise, Order: 1, Title: "RDL", Sets: 3, Reps: "8-10"}
	day := &domain.Day{Drills: []domain.Drill{d1, d2}}

	items, orphaned := ExpandDay(day, nil)
	if orphaned != 0 {
		t.Fatalf("orphaned = %d, want 0", orphaned)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != d1.ID.Hex() || items[1].ID != d2.ID.Hex() {
		t.Error("plain drills must keep their own IDs, in order")
	}
	if items[0].Kind != KindProgramDrill {
		t.Errorf("kind = %s, want %s", items[0].Kind, KindProgramDrill)
	}
}

func TestExpandDayRoutineReference(t *testing.T) {
	e1 := domain.Exercise{ID: primitive.NewObjectID(), Order: 0, Title: "Band Pull-Apart", Sets: 2}
	e2 := domain.Exercise{ID: primitive.NewObjectID(), Order: 1, Title: "Face Pull", Sets: 3}
	routine := &domain.Routine{ID: primitive.NewObjectID(), Name: "Shoulder Prep", Exercises: []domain.Exercise{e2, e1}} // stored out of order

	drill := domain.Drill{ID: primitive.NewObjectID(), Type: domain.DrillTypeRoutine, RoutineID: &routine.ID}
	day := &domain.Day{Drills: []domain.Drill{drill}}
	routines := map[primitive.ObjectID]*domain.Routine{routine.ID: routine}

	items, orphaned := ExpandDay(day, routines)
	if orphaned != 0 {
		t.Fatalf("orphaned = %d, want 0", orphaned)
	}
	wantIDs := []string{
		fmt.Sprintf("%s-routine-%s", drill.ID.Hex(), e1.ID.Hex()),
		fmt.Sprintf("%s-routine-%s", drill.ID.Hex(), e2.ID.Hex()),
	}
	gotIDs := []string{items[0].ID, items[1].ID}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("composite IDs = %v, want %v (ordered by stored order)", gotIDs, wantIDs)
	}
	for _, item := range items {
		if item.Kind != KindRoutineExercise {
			t.Errorf("kind = %s, want %s", item.Kind, KindRoutineExercise)
		}
		if item.DrillID != drill.ID {
			t.Error("routine exercises must back-reference the parent drill")
		}
		if item.RoutineID != routine.ID {
			t.Error("routine exercises must back-reference the routine")
		}
	}
}

func TestExpandDayDeterministic(t *testing.T) {
	routine := &domain.Routine{ID: primitive.NewObjectID(), Exercises: []domain.Exercise{
		{ID: primitive.NewObjectID(), Order: 2, Title: "c"},
		{ID: primitive.NewObjectID(), Order: 0, Title: "a"},
		{ID: primitive.NewObjectID(), Order: 1, Title: "b"},
	}}
	day := &domain.Day{Drills: []domain.Drill{
		{ID: primitive.NewObjectID(), Type: domain.DrillTypeExercise, Title: "Press"},
		{ID: primitive.NewObjectID(), Type: domain.DrillTypeRoutine, RoutineID: &routine.ID},
	}}
	routines := map[primitive.ObjectID]*domain.Routine{routine.ID: routine}

	first, _ := ExpandDay(day, routines)
	second, _ := ExpandDay(day, routines)

	ids := func(items []Item) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.ID
		}
		return out
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("expansion not deterministic: %v vs %v", ids(first), ids(second))
	}
}

func TestExpandDayOrphanedRoutineSkipped(t *testing.T) {
	missing := primitive.NewObjectID()
	day := &domain.Day{Drills: []domain.Drill{
		{ID: primitive.NewObjectID(), Type: domain.DrillTypeRoutine, RoutineID: &missing},
		{ID: primitive.NewObjectID(), Type: domain.DrillTypeExercise, Title: "Row"},
	}}

	items, orphaned := ExpandDay(day, map[primitive.ObjectID]*domain.Routine{})
	if orphaned != 1 {
		t.Errorf("orphaned = %d, want 1", orphaned)
	}
	if len(items) != 1 || items[0].Title != "Row" {
		t.Errorf("surviving items = %+v, want only the plain drill", items)
	}
}

func TestExpandRoutineAssignmentCompositeIDs(t *testing.T) {
	ex := domain.Exercise{ID: primitive.NewObjectID(), Order: 0, Title: "Plank", Sets: 3}
	routine := &domain.Routine{ID: primitive.NewObjectID(), Name: "Core", Exercises: []domain.Exercise{ex}}
	ra := &domain.RoutineAssignment{ID: primitive.NewObjectID(), RoutineID: routine.ID}

	items := ExpandRoutineAssignment(ra, routine)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	want := fmt.Sprintf("%s-%s", ra.ID.Hex(), ex.ID.Hex())
	if items[0].ID != want {
		t.Errorf("composite ID = %s, want %s", items[0].ID, want)
	}
	if items[0].Kind != KindStandaloneExercise {
		t.Errorf("kind = %s, want %s", items[0].Kind, KindStandaloneExercise)
	}
	if items[0].RoutineAssignmentID != ra.ID {
		t.Error("standalone exercise must back-reference the routine assignment")
	}
}
