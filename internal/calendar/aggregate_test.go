package calendar

import (
	"testing"
	"time"

	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// programWithDrills builds a one-week program whose day 1 carries n plain
// drills with 3 sets each.
func programWithDrills(n int) *domain.Program {
	day := domain.Day{ID: primitive.NewObjectID(), DayNumber: 1}
	for i := 0; i < n; i++ {
		day.Drills = append(day.Drills, domain.Drill{
			ID:    primitive.NewObjectID(),
			Type:  domain.DrillTypeExercise,
			Order: i,
			Title: "Drill",
			Sets:  3,
		})
	}
	return &domain.Program{
		ID:            primitive.NewObjectID(),
		Title:         "Program",
		DurationWeeks: 1,
		Weeks:         []domain.Week{{WeekNumber: 1, Days: []domain.Day{day}}},
	}
}

func snapshotFor(programs []*domain.Program, assignments []domain.ProgramAssignment) *Snapshot {
	pm := make(map[primitive.ObjectID]*domain.Program, len(programs))
	for _, p := range programs {
		pm[p.ID] = p
	}
	return &Snapshot{
		Assignments:  assignments,
		Programs:     pm,
		Routines:     map[primitive.ObjectID]*domain.Routine{},
		Replacements: map[primitive.ObjectID][]domain.ProgramReplacement{},
		Completions:  BuildCompletionIndex(nil, nil, nil, nil),
	}
}

func TestAggregationAdditivity(t *testing.T) {
	// Assignment A contributes 3 drills (1 completed), B contributes 2.
	pa := programWithDrills(3)
	pb := programWithDrills(2)
	start := localDate(2024, time.April, 10)

	a := assignmentStarting(start)
	a.ProgramID = pa.ID
	b := assignmentStarting(start)
	b.ProgramID = pb.ID

	snap := snapshotFor([]*domain.Program{pa, pb}, []domain.ProgramAssignment{a, b})
	snap.Completions = BuildCompletionIndex(nil, []domain.ProgramDrillCompletion{
		{DrillID: pa.Weeks[0].Days[0].Drills[0].ID, ProgramAssignmentID: a.ID},
	}, nil, nil)

	engine := NewEngine(nil)
	cal := engine.BuildCalendar(snap, Date{2024, time.April, 10}, Date{2024, time.April, 10})

	proj, ok := cal["2024-04-10"]
	if !ok {
		t.Fatal("no projection for 2024-04-10")
	}
	if proj.TotalDrills != 5 || proj.CompletedDrills != 1 {
		t.Errorf("totals = %d/%d, want 5/1", proj.CompletedDrills, proj.TotalDrills)
	}
	if len(proj.Entries) != 2 {
		t.Errorf("entries = %d, want 2", len(proj.Entries))
	}
	sum := 0
	for _, e := range proj.Entries {
		sum += e.TotalDrills
	}
	if sum != proj.TotalDrills {
		t.Errorf("day total %d != sum of entry totals %d", proj.TotalDrills, sum)
	}
	// sets*2 heuristic: 5 drills x 3 sets x 2 minutes.
	if proj.ExpectedTimeMinutes != 30 {
		t.Errorf("expectedTime = %d, want 30", proj.ExpectedTimeMinutes)
	}
}

func TestReplacementDeletesDay(t *testing.T) {
	p := programWithDrills(2)
	a := assignmentStarting(localDate(2024, time.April, 10))
	a.ProgramID = p.ID

	snap := snapshotFor([]*domain.Program{p}, []domain.ProgramAssignment{a})
	snap.Replacements[a.ID] = []domain.ProgramReplacement{{
		AssignmentID: a.ID,
		ReplacedDate: time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC),
		// Empty LessonID and no substitute: the day is deleted.
	}}

	engine := NewEngine(nil)
	cal := engine.BuildCalendar(snap, Date{2024, time.April, 10}, Date{2024, time.April, 10})
	if _, ok := cal["2024-04-10"]; ok {
		t.Error("replaced day must show no program content even though the base schedule has some")
	}
}

func TestClosedAssignmentsDoNotProject(t *testing.T) {
	p := programWithDrills(1)
	a := assignmentStarting(localDate(2024, time.April, 10))
	a.ProgramID = p.ID
	closed := time.Now()
	a.CompletedAt = &closed

	snap := snapshotFor([]*domain.Program{p}, []domain.ProgramAssignment{a})
	engine := NewEngine(nil)
	cal := engine.BuildCalendar(snap, Date{2024, time.April, 10}, Date{2024, time.April, 10})
	if len(cal) != 0 {
		t.Error("soft-closed assignment still projected content")
	}
}

func TestRestDayMergeIsAND(t *testing.T) {
	rest := &domain.Program{
		ID:    primitive.NewObjectID(),
		Title: "Recovery",
		Weeks: []domain.Week{{WeekNumber: 1, Days: []domain.Day{
			{ID: primitive.NewObjectID(), DayNumber: 1, IsRestDay: true},
		}}},
	}
	work := programWithDrills(1)
	start := localDate(2024, time.April, 10)

	a := assignmentStarting(start)
	a.ProgramID = rest.ID
	b := assignmentStarting(start)
	b.ProgramID = work.ID

	engine := NewEngine(nil)

	// Rest-only day: rest.
	snap := snapshotFor([]*domain.Program{rest}, []domain.ProgramAssignment{a})
	cal := engine.BuildCalendar(snap, Date{2024, time.April, 10}, Date{2024, time.April, 10})
	if proj := cal["2024-04-10"]; !proj.IsRestDay {
		t.Error("day with only a rest-day entry should be a rest day")
	}

	// Rest + working program: not rest (every entry must agree).
	snap = snapshotFor([]*domain.Program{rest, work}, []domain.ProgramAssignment{a, b})
	cal = engine.BuildCalendar(snap, Date{2024, time.April, 10}, Date{2024, time.April, 10})
	if proj := cal["2024-04-10"]; proj.IsRestDay {
		t.Error("one working entry must make the merged day a working day")
	}
}

func TestLightViewFillsAbsentDates(t *testing.T) {
	p := programWithDrills(2)
	a := assignmentStarting(localDate(2024, time.April, 10))
	a.ProgramID = p.ID
	snap := snapshotFor([]*domain.Program{p}, []domain.ProgramAssignment{a})

	engine := NewEngine(nil)
	from, to := Date{2024, time.April, 9}, Date{2024, time.April, 11}

	full := engine.BuildCalendar(snap, from, to)
	light := engine.BuildLightCalendar(snap, from, to)

	if _, ok := full["2024-04-09"]; ok {
		t.Error("full view must omit dates with no content")
	}
	if len(light) != 3 {
		t.Fatalf("light view has %d dates, want every date in range (3)", len(light))
	}
	empty := light["2024-04-09"]
	if !empty.IsRestDay || empty.TotalDrills != 0 {
		t.Errorf("light view absent date = %+v, want zero-count rest day", empty)
	}
	busy := light["2024-04-10"]
	if busy.IsRestDay || busy.TotalDrills != 2 {
		t.Errorf("light view busy date = %+v, want 2 drills, not rest", busy)
	}
}

func TestRoutineAssignmentProjectsOverItsRange(t *testing.T) {
	routine := &domain.Routine{
		ID:   primitive.NewObjectID(),
		Name: "Mobility",
		Exercises: []domain.Exercise{
			{ID: primitive.NewObjectID(), Order: 0, Title: "Hip Opener", Sets: 2},
		},
	}
	ra := domain.RoutineAssignment{
		ID:        primitive.NewObjectID(),
		RoutineID: routine.ID,
		StartDate: localDate(2024, time.April, 8),
		EndDate:   localDate(2024, time.April, 12),
	}

	snap := snapshotFor(nil, nil)
	snap.Routines[routine.ID] = routine
	snap.RoutineAssignments = []domain.RoutineAssignment{ra}
	snap.Completions = BuildCompletionIndex(nil, nil, nil, []domain.RoutineExerciseCompletion{
		{RoutineAssignmentID: ra.ID, ExerciseID: routine.Exercises[0].ID},
	})

	engine := NewEngine(nil)
	cal := engine.BuildCalendar(snap, Date{2024, time.April, 7}, Date{2024, time.April, 13})

	if _, ok := cal["2024-04-07"]; ok {
		t.Error("routine must not project before its start date")
	}
	if _, ok := cal["2024-04-13"]; ok {
		t.Error("routine must not project after its end date")
	}
	proj, ok := cal["2024-04-10"]
	if !ok {
		t.Fatal("routine did not project inside its range")
	}
	if len(proj.Entries) != 1 || proj.Entries[0].Kind != EntryRoutine {
		t.Fatalf("entries = %+v, want one routine entry", proj.Entries)
	}
	if proj.CompletedDrills != 1 {
		t.Errorf("completedDrills = %d, want 1", proj.CompletedDrills)
	}
}

func TestOrphanedRoutineAssignmentFlagged(t *testing.T) {
	ra := domain.RoutineAssignment{
		ID:        primitive.NewObjectID(),
		RoutineID: primitive.NewObjectID(), // routine no longer exists
		StartDate: localDate(2024, time.April, 10),
		EndDate:   localDate(2024, time.April, 10),
	}
	snap := snapshotFor(nil, nil)
	snap.RoutineAssignments = []domain.RoutineAssignment{ra}

	engine := NewEngine(nil)
	cal := engine.BuildCalendar(snap, Date{2024, time.April, 10}, Date{2024, time.April, 10})
	proj, ok := cal["2024-04-10"]
	if !ok {
		t.Fatal("orphaned assignment should still surface a flagged day")
	}
	if proj.Orphaned != 1 || proj.TotalDrills != 0 {
		t.Errorf("projection = %+v, want orphaned=1 with zero totals", proj)
	}
}

func TestDateScopedCompletionExampleScenario(t *testing.T) {
	// Client marks drill D complete on 2024-03-05 via a date-scoped row.
	// That date shows completed; the next date does not.
	p := programWithDrills(1)
	drill := p.Weeks[0].Days[0].Drills[0]

	// Two-week program so both dates land on a real day: give week 1 a day
	// for Tuesday and Wednesday.
	p.Weeks[0].Days = append(p.Weeks[0].Days, domain.Day{
		DayNumber: 2,
		Drills:    []domain.Drill{drill},
	})

	a := assignmentStarting(localDate(2024, time.March, 5))
	a.ProgramID = p.ID
	snap := snapshotFor([]*domain.Program{p}, []domain.ProgramAssignment{a})
	snap.Completions = BuildCompletionIndex(nil, nil, []domain.ExerciseCompletion{
		{ExerciseID: drill.ID, ProgramDrillID: "", Date: "2024-03-05"},
	}, nil)

	engine := NewEngine(nil)
	cal := engine.BuildCalendar(snap, Date{2024, time.March, 5}, Date{2024, time.March, 6})

	if cal["2024-03-05"].CompletedDrills != 1 {
		t.Error("completion on its own date should show completed")
	}
	if cal["2024-03-06"].CompletedDrills != 0 {
		t.Error("date-scoped completion must not leak onto the next date")
	}
}
