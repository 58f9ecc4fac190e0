package service

import (
	"context"
	"errors"
	"testing"

	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRoutineRepo is an in-memory RoutineRepository for service tests.
type fakeRoutineRepo struct {
	routines map[primitive.ObjectID]*domain.Routine
	updated  *domain.Routine
}

func newFakeRoutineRepo(routines ...*domain.Routine) *fakeRoutineRepo {
	repo := &fakeRoutineRepo{routines: make(map[primitive.ObjectID]*domain.Routine)}
	for _, r := range routines {
		repo.routines[r.ID] = r
	}
	return repo
}

func (f *fakeRoutineRepo) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	routine.ID = primitive.NewObjectID()
	f.routines[routine.ID] = routine
	return routine.ID, nil
}

func (f *fakeRoutineRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	routine, ok := f.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *routine
	cp.Exercises = append([]domain.Exercise(nil), routine.Exercises...)
	return &cp, nil
}

func (f *fakeRoutineRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, id := range ids {
		if r, ok := f.routines[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoutineRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, r := range f.routines {
		if r.CoachID == coachID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoutineRepo) Update(ctx context.Context, routine *domain.Routine) error {
	if _, ok := f.routines[routine.ID]; !ok {
		return repository.ErrNotFound
	}
	f.routines[routine.ID] = routine
	f.updated = routine
	return nil
}

func (f *fakeRoutineRepo) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	r, ok := f.routines[id]
	if !ok || r.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(f.routines, id)
	return nil
}

func routineWithExercises(coachID primitive.ObjectID, n int) *domain.Routine {
	routine := &domain.Routine{
		ID:      primitive.NewObjectID(),
		CoachID: coachID,
		Name:    "Strength block",
	}
	for i := 0; i < n; i++ {
		routine.Exercises = append(routine.Exercises, domain.Exercise{
			ID:    primitive.NewObjectID(),
			Order: i,
			Title: "Exercise",
			Sets:  3,
		})
	}
	return routine
}

func TestReorderRoutineExercises(t *testing.T) {
	coachID := primitive.NewObjectID()
	routine := routineWithExercises(coachID, 3)
	repo := newFakeRoutineRepo(routine)
	svc := &coachService{routineRepo: repo}

	// Reverse the current order.
	orderedIDs := []primitive.ObjectID{
		routine.Exercises[2].ID,
		routine.Exercises[1].ID,
		routine.Exercises[0].ID,
	}

	updated, err := svc.ReorderRoutineExercises(context.Background(), coachID, routine.ID, orderedIDs)
	if err != nil {
		t.Fatalf("ReorderRoutineExercises: %v", err)
	}
	if repo.updated == nil {
		t.Fatal("expected routine to be persisted")
	}
	for i := range updated.Exercises {
		wantOrder := len(updated.Exercises) - 1 - i
		if updated.Exercises[i].Order != wantOrder {
			t.Errorf("exercise %d: order = %d, want %d", i, updated.Exercises[i].Order, wantOrder)
		}
	}
}

func TestReorderRejectsBadPermutations(t *testing.T) {
	coachID := primitive.NewObjectID()
	routine := routineWithExercises(coachID, 3)
	repo := newFakeRoutineRepo(routine)
	svc := &coachService{routineRepo: repo}
	ctx := context.Background()

	cases := []struct {
		name string
		ids  []primitive.ObjectID
	}{
		{"too short", []primitive.ObjectID{routine.Exercises[0].ID}},
		{"duplicate entry", []primitive.ObjectID{
			routine.Exercises[0].ID,
			routine.Exercises[0].ID,
			routine.Exercises[1].ID,
		}},
		{"unknown exercise", []primitive.ObjectID{
			routine.Exercises[0].ID,
			routine.Exercises[1].ID,
			primitive.NewObjectID(),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ReorderRoutineExercises(ctx, coachID, routine.ID, tc.ids)
			if !errors.Is(err, ErrExerciseOrderMismatch) {
				t.Errorf("err = %v, want ErrExerciseOrderMismatch", err)
			}
		})
	}

	if repo.updated != nil {
		t.Error("rejected reorder must not persist")
	}
}

func TestReorderDeniedForOtherCoach(t *testing.T) {
	coachID := primitive.NewObjectID()
	routine := routineWithExercises(coachID, 2)
	svc := &coachService{routineRepo: newFakeRoutineRepo(routine)}

	_, err := svc.ReorderRoutineExercises(context.Background(), primitive.NewObjectID(), routine.ID,
		[]primitive.ObjectID{routine.Exercises[0].ID, routine.Exercises[1].ID})
	if !errors.Is(err, ErrRoutineAccessDenied) {
		t.Errorf("err = %v, want ErrRoutineAccessDenied", err)
	}
}

func TestValidateProgramStructure(t *testing.T) {
	coachID := primitive.NewObjectID()
	routine := routineWithExercises(coachID, 1)
	svc := &coachService{routineRepo: newFakeRoutineRepo(routine)}
	ctx := context.Background()

	valid := func() *domain.Program {
		routineID := routine.ID
		return &domain.Program{
			CoachID:       coachID,
			Title:         "Block A",
			DurationWeeks: 4,
			Weeks: []domain.Week{{
				WeekNumber: 1,
				Days: []domain.Day{{
					DayNumber: 1,
					Drills: []domain.Drill{
						{Type: domain.DrillTypeExercise, Title: "Squat", Sets: 3},
						{Type: domain.DrillTypeRoutine, RoutineID: &routineID},
					},
				}},
			}},
		}
	}

	if err := svc.validateProgram(ctx, valid()); err != nil {
		t.Fatalf("valid program rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Program)
		want   error
	}{
		{"missing title", func(p *domain.Program) { p.Title = "" }, ErrInvalidProgram},
		{"zero duration", func(p *domain.Program) { p.DurationWeeks = 0 }, ErrInvalidProgram},
		{"week number zero", func(p *domain.Program) { p.Weeks[0].WeekNumber = 0 }, ErrInvalidProgram},
		{"day number eight", func(p *domain.Program) { p.Weeks[0].Days[0].DayNumber = 8 }, ErrInvalidProgram},
		{"exercise without title", func(p *domain.Program) { p.Weeks[0].Days[0].Drills[0].Title = "" }, ErrInvalidProgram},
		{"routine ref without id", func(p *domain.Program) { p.Weeks[0].Days[0].Drills[1].RoutineID = nil }, ErrInvalidProgram},
		{"routine ref to missing routine", func(p *domain.Program) {
			id := primitive.NewObjectID()
			p.Weeks[0].Days[0].Drills[1].RoutineID = &id
		}, ErrRoutineNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid()
			tc.mutate(p)
			if err := svc.validateProgram(ctx, p); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
