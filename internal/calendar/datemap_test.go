package calendar

import (
	"testing"
	"time"

	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func assignmentStarting(t time.Time) domain.ProgramAssignment {
	return domain.ProgramAssignment{
		ID:         primitive.NewObjectID(),
		ProgramID:  primitive.NewObjectID(),
		ClientID:   primitive.NewObjectID(),
		AssignedAt: t,
		StartDate:  &t,
	}
}

func TestMapDayToDate(t *testing.T) {
	// duration=2 weeks, start 2024-01-01 (a Monday)
	a := assignmentStarting(localDate(2024, time.January, 1))

	cases := []struct {
		week, day int
		want      string
	}{
		{1, 1, "2024-01-01"},
		{1, 7, "2024-01-07"},
		{2, 1, "2024-01-08"},
		{2, 7, "2024-01-14"},
		{3, 1, "2024-01-15"},
	}
	for _, tc := range cases {
		got := MapDayToDate(&a, tc.week, tc.day)
		if got.String() != tc.want {
			t.Errorf("MapDayToDate(w=%d,d=%d) = %s, want %s", tc.week, tc.day, got, tc.want)
		}
	}
}

func TestMapDateToCoordinateRoundTrip(t *testing.T) {
	starts := []time.Time{
		localDate(2024, time.January, 1),
		localDate(2024, time.February, 29),
		localDate(2023, time.December, 31),
		localDate(2024, time.March, 9), // spans a US DST transition
	}
	for _, start := range starts {
		a := assignmentStarting(start)
		for week := 1; week <= 6; week++ {
			for day := 1; day <= 7; day++ {
				date := MapDayToDate(&a, week, day)
				coord := MapDateToCoordinate(&a, date)
				if coord == nil {
					t.Fatalf("start=%s w=%d d=%d: coordinate is nil", start, week, day)
				}
				if coord.WeekNumber != week || coord.DayNumber != day {
					t.Errorf("start=%s: round trip (%d,%d) -> %s -> (%d,%d)",
						start, week, day, date, coord.WeekNumber, coord.DayNumber)
				}
			}
		}
	}
}

func TestMapDateToCoordinateBeforeStart(t *testing.T) {
	a := assignmentStarting(localDate(2024, time.June, 10))
	if got := MapDateToCoordinate(&a, Date{2024, time.June, 9}); got != nil {
		t.Errorf("date before start: got %+v, want nil", got)
	}
}

func TestEffectiveStartFallsBackToAssignedAt(t *testing.T) {
	a := domain.ProgramAssignment{
		AssignedAt: time.Date(2024, time.May, 3, 18, 45, 0, 0, time.Local),
	}
	if got := EffectiveStart(&a); got != (Date{2024, time.May, 3}) {
		t.Errorf("EffectiveStart = %s, want 2024-05-03", got)
	}

	explicit := localDate(2024, time.May, 6)
	a.StartDate = &explicit
	if got := EffectiveStart(&a); got != (Date{2024, time.May, 6}) {
		t.Errorf("EffectiveStart with StartDate = %s, want 2024-05-06", got)
	}
}

func TestFindReplacementComparesUTCDates(t *testing.T) {
	reps := []domain.ProgramReplacement{
		{ReplacedDate: time.Date(2024, time.April, 10, 23, 30, 0, 0, time.UTC)},
	}
	if findReplacement(reps, Date{2024, time.April, 10}) == nil {
		t.Error("replacement at 23:30 UTC should match the UTC calendar date")
	}
	if findReplacement(reps, Date{2024, time.April, 11}) != nil {
		t.Error("replacement must not match the following date")
	}
}

func TestResolveDayMissingWeekIsNoContent(t *testing.T) {
	program := &domain.Program{
		ID:            primitive.NewObjectID(),
		Title:         "Base Strength",
		DurationWeeks: 1,
		Weeks: []domain.Week{
			{ID: primitive.NewObjectID(), WeekNumber: 1, Days: []domain.Day{
				{ID: primitive.NewObjectID(), DayNumber: 1},
			}},
		},
	}
	a := assignmentStarting(localDate(2024, time.January, 1))
	a.ProgramID = program.ID
	snap := &Snapshot{
		Assignments:  []domain.ProgramAssignment{a},
		Programs:     map[primitive.ObjectID]*domain.Program{program.ID: program},
		Replacements: map[primitive.ObjectID][]domain.ProgramReplacement{},
	}

	// Week 2 does not exist: no content, not an error.
	resolved := resolveDay(snap, &a, Date{2024, time.January, 8})
	if resolved.day != nil || resolved.deleted {
		t.Errorf("week past duration: got %+v, want empty resolution", resolved)
	}

	// Day 2 of week 1 does not exist either.
	resolved = resolveDay(snap, &a, Date{2024, time.January, 2})
	if resolved.day != nil {
		t.Error("missing day should resolve to no content")
	}
}

func TestResolveDaySubstituteProgram(t *testing.T) {
	base := &domain.Program{ID: primitive.NewObjectID(), Title: "Base"}
	sub := &domain.Program{
		ID:    primitive.NewObjectID(),
		Title: "Deload",
		Weeks: []domain.Week{
			{WeekNumber: 1, Days: []domain.Day{
				{ID: primitive.NewObjectID(), DayNumber: 3, WarmupTitle: "deload warmup"},
			}},
		},
	}

	a := assignmentStarting(localDate(2024, time.January, 1))
	a.ProgramID = base.ID

	subStart := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	subEnd := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)
	snap := &Snapshot{
		Assignments: []domain.ProgramAssignment{a},
		Programs: map[primitive.ObjectID]*domain.Program{
			base.ID: base,
			sub.ID:  sub,
		},
		Replacements: map[primitive.ObjectID][]domain.ProgramReplacement{
			a.ID: {{
				AssignmentID:        a.ID,
				ReplacedDate:        time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
				LessonID:            "lesson-1",
				SubstituteProgramID: &sub.ID,
				SubstituteStart:     &subStart,
				SubstituteEnd:       &subEnd,
			}},
		},
	}

	// 2024-01-10 is day 3 of the substitute's range (anchored at 01-08).
	resolved := resolveDay(snap, &a, Date{2024, time.January, 10})
	if resolved.day == nil {
		t.Fatal("substitute day not resolved")
	}
	if resolved.program.ID != sub.ID {
		t.Errorf("resolved program = %s, want substitute", resolved.program.Title)
	}
	if resolved.day.WarmupTitle != "deload warmup" {
		t.Errorf("resolved wrong day: %+v", resolved.day)
	}
}
