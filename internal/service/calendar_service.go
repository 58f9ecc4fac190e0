package service

import (
	"context"
	"errors"
	"time"

	"coachpad/coaching-app/internal/calendar"
	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/monitoring"
	"coachpad/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrCalendarAccessDenied = errors.New("access denied to this client's calendar")
	ErrInvalidCalendarRange = errors.New("invalid calendar date range")
)

// Calendar range queries are capped so one request can't ask for years of
// projections.
const maxCalendarRangeDays = 100

type CalendarService interface {
	// GetCalendar is the full view: items per date, absent dates omitted.
	GetCalendar(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, from, to calendar.Date) (map[string]calendar.DayProjection, error)
	// GetLightCalendar is the summary view: every date present, counts only.
	GetLightCalendar(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, from, to calendar.Date) (map[string]calendar.DaySummary, error)
	// GetDay is the single-date view.
	GetDay(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, date calendar.Date) (*calendar.DayProjection, error)
	// GetWeek is the seven-day view starting at the given date.
	GetWeek(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, start calendar.Date) (map[string]calendar.DayProjection, error)
}

// calendarService loads a client's scheduling state into a snapshot and runs
// the projection engine over it. All four query surfaces share the same load
// path, so they can never disagree about what is scheduled.
type calendarService struct {
	userRepo        repository.UserRepository
	programRepo     repository.ProgramRepository
	routineRepo     repository.RoutineRepository
	assignmentRepo  repository.ProgramAssignmentRepository
	routineAssign   repository.RoutineAssignmentRepository
	replacementRepo repository.ReplacementRepository
	completionRepo  repository.CompletionRepository
	engine          *calendar.Engine
	log             *zap.Logger
}

// NewCalendarService creates a new instance of calendarService.
func NewCalendarService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	routineRepo repository.RoutineRepository,
	assignmentRepo repository.ProgramAssignmentRepository,
	routineAssign repository.RoutineAssignmentRepository,
	replacementRepo repository.ReplacementRepository,
	completionRepo repository.CompletionRepository,
	log *zap.Logger,
) CalendarService {
	if log == nil {
		log = zap.NewNop()
	}
	return &calendarService{
		userRepo:        userRepo,
		programRepo:     programRepo,
		routineRepo:     routineRepo,
		assignmentRepo:  assignmentRepo,
		routineAssign:   routineAssign,
		replacementRepo: replacementRepo,
		completionRepo:  completionRepo,
		engine:          calendar.NewEngine(log),
		log:             log,
	}
}

func (s *calendarService) GetCalendar(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, from, to calendar.Date) (map[string]calendar.DayProjection, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx, requester, clientID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cal := s.engine.BuildCalendar(snap, from, to)
	observeBuild(start, cal)
	return cal, nil
}

func (s *calendarService) GetLightCalendar(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, from, to calendar.Date) (map[string]calendar.DaySummary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(ctx, requester, clientID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	light := s.engine.BuildLightCalendar(snap, from, to)
	monitoring.CalendarBuildDuration.Observe(time.Since(start).Seconds())
	return light, nil
}

// GetDay returns the projection for one date. A date with no content yields an
// empty rest-day projection rather than an error.
func (s *calendarService) GetDay(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, date calendar.Date) (*calendar.DayProjection, error) {
	snap, err := s.loadSnapshot(ctx, requester, clientID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	proj, ok := s.engine.ProjectDay(snap, date)
	monitoring.CalendarBuildDuration.Observe(time.Since(start).Seconds())
	if !ok {
		proj = calendar.DayProjection{
			Date:      date.String(),
			IsRestDay: true,
			Entries:   []calendar.DayEntry{},
		}
	}
	return &proj, nil
}

func (s *calendarService) GetWeek(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID, start calendar.Date) (map[string]calendar.DayProjection, error) {
	return s.GetCalendar(ctx, requester, clientID, start, start.AddDays(6))
}

func validateRange(from, to calendar.Date) error {
	if to.Before(from) {
		return ErrInvalidCalendarRange
	}
	if calendar.DaysBetween(from, to) > maxCalendarRangeDays {
		return ErrInvalidCalendarRange
	}
	return nil
}

func observeBuild(start time.Time, cal map[string]calendar.DayProjection) {
	monitoring.CalendarBuildDuration.Observe(time.Since(start).Seconds())
	for _, proj := range cal {
		if proj.Orphaned > 0 {
			monitoring.CalendarOrphanedRefs.Add(float64(proj.Orphaned))
		}
	}
}

// authorize allows clients to read their own calendar and coaches to read the
// calendars of clients on their roster.
func (s *calendarService) authorize(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID) error {
	if requester.ID == clientID {
		return nil
	}
	if requester.Role != domain.RoleCoach {
		return ErrCalendarAccessDenied
	}
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.CoachID == nil || *client.CoachID != requester.ID {
		return ErrCalendarAccessDenied
	}
	return nil
}

// loadSnapshot gathers everything the engine needs in one pass: assignments,
// the programs and routines they reference, per-date replacements, and all
// four completion tables.
func (s *calendarService) loadSnapshot(ctx context.Context, requester domain.AuthenticatedUser, clientID primitive.ObjectID) (*calendar.Snapshot, error) {
	if err := s.authorize(ctx, requester, clientID); err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	routineAssignments, err := s.routineAssign.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	assignmentIDs := make([]primitive.ObjectID, len(assignments))
	programIDSet := make(map[primitive.ObjectID]struct{})
	for i := range assignments {
		assignmentIDs[i] = assignments[i].ID
		programIDSet[assignments[i].ProgramID] = struct{}{}
	}

	replacementRows, err := s.replacementRepo.GetByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}
	replacements := make(map[primitive.ObjectID][]domain.ProgramReplacement)
	for _, rep := range replacementRows {
		replacements[rep.AssignmentID] = append(replacements[rep.AssignmentID], rep)
		if rep.SubstituteProgramID != nil {
			programIDSet[*rep.SubstituteProgramID] = struct{}{}
		}
	}

	programs, err := s.loadPrograms(ctx, programIDSet)
	if err != nil {
		return nil, err
	}

	// Routines referenced by program drills or assigned standalone.
	routineIDSet := make(map[primitive.ObjectID]struct{})
	for _, program := range programs {
		for _, week := range program.Weeks {
			for _, day := range week.Days {
				for _, drill := range day.Drills {
					if drill.IsRoutineRef() {
						routineIDSet[*drill.RoutineID] = struct{}{}
					}
				}
			}
		}
	}
	for i := range routineAssignments {
		routineIDSet[routineAssignments[i].RoutineID] = struct{}{}
	}

	routines, err := s.loadRoutines(ctx, routineIDSet)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return &calendar.Snapshot{
		ClientID:           clientID,
		Assignments:        assignments,
		Programs:           programs,
		Routines:           routines,
		Replacements:       replacements,
		RoutineAssignments: routineAssignments,
		Completions: calendar.BuildCompletionIndex(
			completions.Legacy,
			completions.ProgramDrills,
			completions.Exercises,
			completions.RoutineExercises,
		),
	}, nil
}

func (s *calendarService) loadPrograms(ctx context.Context, idSet map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]*domain.Program, error) {
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	rows, err := s.programRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]*domain.Program, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (s *calendarService) loadRoutines(ctx context.Context, idSet map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]*domain.Routine, error) {
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	rows, err := s.routineRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]*domain.Routine, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
