package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/notify"
	"coachpad/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyCoached  = errors.New("client already has a different coach")
	ErrClientNotManaged      = errors.New("client is not managed by this coach")
	ErrProgramNotFound       = errors.New("program not found")
	ErrProgramAccessDenied   = errors.New("access denied to this program")
	ErrRoutineNotFound       = errors.New("routine not found")
	ErrRoutineAccessDenied   = errors.New("access denied to this routine")
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrAssignmentDenied      = errors.New("access denied to modify this assignment")
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrSubmissionDenied      = errors.New("access denied to this submission")
	ErrReplacementNotFound   = errors.New("replacement not found")
	ErrInvalidProgram        = errors.New("invalid program structure")
	ErrInvalidRoutine        = errors.New("invalid routine structure")
	ErrInvalidDateRange      = errors.New("end date precedes start date")
	ErrExerciseOrderMismatch = errors.New("reorder list does not match routine exercises")
)

type CoachService interface {
	// Roster
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)

	// Program authoring
	CreateProgram(ctx context.Context, program *domain.Program) (*domain.Program, error)
	GetPrograms(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
	GetProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error)
	UpdateProgram(ctx context.Context, program *domain.Program) (*domain.Program, error)
	DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID) error

	// Routine authoring
	CreateRoutine(ctx context.Context, routine *domain.Routine) (*domain.Routine, error)
	GetRoutines(ctx context.Context, coachID primitive.ObjectID) ([]domain.Routine, error)
	GetRoutine(ctx context.Context, coachID, routineID primitive.ObjectID) (*domain.Routine, error)
	UpdateRoutine(ctx context.Context, routine *domain.Routine) (*domain.Routine, error)
	ReorderRoutineExercises(ctx context.Context, coachID, routineID primitive.ObjectID, orderedExerciseIDs []primitive.ObjectID) (*domain.Routine, error)
	DeleteRoutine(ctx context.Context, coachID, routineID primitive.ObjectID) error

	// Assignments
	AssignProgram(ctx context.Context, coachID, clientID, programID primitive.ObjectID, startDate *time.Time) (*domain.ProgramAssignment, error)
	CloseProgramAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) error
	AssignRoutine(ctx context.Context, coachID, clientID, routineID primitive.ObjectID, startDate, endDate time.Time) (*domain.RoutineAssignment, error)
	UnassignRoutine(ctx context.Context, coachID, routineAssignmentID primitive.ObjectID) error
	GetClientAssignments(ctx context.Context, coachID, clientID primitive.ObjectID) (*ClientAssignments, error)

	// Replacements
	ReplaceProgramDay(ctx context.Context, coachID primitive.ObjectID, req ReplaceDayRequest) (*domain.ProgramReplacement, error)
	RemoveReplacement(ctx context.Context, coachID, replacementID primitive.ObjectID) error

	// Video review
	GetSubmissions(ctx context.Context, coachID primitive.ObjectID, status domain.SubmissionStatus) ([]domain.VideoSubmission, error)
	ReviewSubmission(ctx context.Context, coachID, submissionID primitive.ObjectID, feedback string) (*domain.VideoSubmission, error)
}

// ReplaceDayRequest overrides one calendar date of a program assignment. With
// no substitute the day is simply deleted; with a substitute program and date
// range the substitute's schedule covers the date instead.
type ReplaceDayRequest struct {
	AssignmentID        primitive.ObjectID
	Date                time.Time
	SubstituteProgramID *primitive.ObjectID
	SubstituteStart     *time.Time
	SubstituteEnd       *time.Time
}

// ClientAssignments bundles both assignment kinds for one client.
type ClientAssignments struct {
	Programs []domain.ProgramAssignment `json:"programs"`
	Routines []domain.RoutineAssignment `json:"routines"`
}

// coachService implements the CoachService interface.
type coachService struct {
	userRepo        repository.UserRepository
	programRepo     repository.ProgramRepository
	routineRepo     repository.RoutineRepository
	assignmentRepo  repository.ProgramAssignmentRepository
	routineAssign   repository.RoutineAssignmentRepository
	replacementRepo repository.ReplacementRepository
	submissionRepo  repository.VideoSubmissionRepository
	notifier        *notify.Notifier
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	routineRepo repository.RoutineRepository,
	assignmentRepo repository.ProgramAssignmentRepository,
	routineAssign repository.RoutineAssignmentRepository,
	replacementRepo repository.ReplacementRepository,
	submissionRepo repository.VideoSubmissionRepository,
	notifier *notify.Notifier,
) CoachService {
	return &coachService{
		userRepo:        userRepo,
		programRepo:     programRepo,
		routineRepo:     routineRepo,
		assignmentRepo:  assignmentRepo,
		routineAssign:   routineAssign,
		replacementRepo: replacementRepo,
		submissionRepo:  submissionRepo,
		notifier:        notifier,
	}
}

// === Roster ===

// AddClientByEmail finds a client by email and puts them on the coach's roster.
func (s *coachService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if coachID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("coach ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.CoachID != nil && *client.CoachID != primitive.NilObjectID {
		if *client.CoachID == coachID {
			// Already on this coach's roster; idempotent success.
			client.PasswordHash = ""
			return client, nil
		}
		return nil, ErrClientAlreadyCoached
	}

	if err := s.userRepo.AddClientToCoach(ctx, coachID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}

	client.CoachID = &coachID
	client.PasswordHash = ""
	return client, nil
}

// GetClients retrieves the coach's roster.
func (s *coachService) GetClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	clients, err := s.userRepo.GetClientsByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// === Program authoring ===

// CreateProgram validates and stores a new program.
func (s *coachService) CreateProgram(ctx context.Context, program *domain.Program) (*domain.Program, error) {
	if err := s.validateProgram(ctx, program); err != nil {
		return nil, err
	}

	id, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = id
	return program, nil
}

func (s *coachService) GetPrograms(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	return s.programRepo.GetByCoachID(ctx, coachID)
}

func (s *coachService) GetProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.CoachID != coachID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

// UpdateProgram replaces a program's content. Ownership is checked against the
// stored document, not the request payload.
func (s *coachService) UpdateProgram(ctx context.Context, program *domain.Program) (*domain.Program, error) {
	existing, err := s.GetProgram(ctx, program.CoachID, program.ID)
	if err != nil {
		return nil, err
	}
	program.CreatedAt = existing.CreatedAt

	if err := s.validateProgram(ctx, program); err != nil {
		return nil, err
	}
	if err := s.programRepo.Update(ctx, program); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *coachService) DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID) error {
	err := s.programRepo.Delete(ctx, programID, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// validateProgram checks the structural invariants of the embedded tree: day
// numbers 1-7, positive week numbers, and routine references carrying an ID.
// Referenced routines must exist and belong to the same coach at authoring
// time; later deletions leave orphans the calendar skips.
func (s *coachService) validateProgram(ctx context.Context, program *domain.Program) error {
	if program.CoachID == primitive.NilObjectID || program.Title == "" {
		return ErrInvalidProgram
	}
	if program.DurationWeeks < 1 {
		return fmt.Errorf("%w: durationWeeks must be positive", ErrInvalidProgram)
	}

	for _, week := range program.Weeks {
		if week.WeekNumber < 1 {
			return fmt.Errorf("%w: week numbers are 1-based", ErrInvalidProgram)
		}
		for _, day := range week.Days {
			if day.DayNumber < 1 || day.DayNumber > 7 {
				return fmt.Errorf("%w: day numbers are 1-7", ErrInvalidProgram)
			}
			for _, drill := range day.Drills {
				switch drill.Type {
				case domain.DrillTypeExercise:
					if drill.Title == "" {
						return fmt.Errorf("%w: exercise drill requires a title", ErrInvalidProgram)
					}
				case domain.DrillTypeRoutine:
					if drill.RoutineID == nil || *drill.RoutineID == primitive.NilObjectID {
						return fmt.Errorf("%w: routine drill requires routineId", ErrInvalidProgram)
					}
					if _, err := s.GetRoutine(ctx, program.CoachID, *drill.RoutineID); err != nil {
						return err
					}
				default:
					return fmt.Errorf("%w: unknown drill type %q", ErrInvalidProgram, drill.Type)
				}
			}
		}
	}
	return nil
}

// === Routine authoring ===

func (s *coachService) CreateRoutine(ctx context.Context, routine *domain.Routine) (*domain.Routine, error) {
	if err := validateRoutine(routine); err != nil {
		return nil, err
	}

	id, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	routine.ID = id
	return routine, nil
}

func (s *coachService) GetRoutines(ctx context.Context, coachID primitive.ObjectID) ([]domain.Routine, error) {
	return s.routineRepo.GetByCoachID(ctx, coachID)
}

func (s *coachService) GetRoutine(ctx context.Context, coachID, routineID primitive.ObjectID) (*domain.Routine, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if routine.CoachID != coachID {
		return nil, ErrRoutineAccessDenied
	}
	return routine, nil
}

func (s *coachService) UpdateRoutine(ctx context.Context, routine *domain.Routine) (*domain.Routine, error) {
	existing, err := s.GetRoutine(ctx, routine.CoachID, routine.ID)
	if err != nil {
		return nil, err
	}
	routine.CreatedAt = existing.CreatedAt

	if err := validateRoutine(routine); err != nil {
		return nil, err
	}
	if err := s.routineRepo.Update(ctx, routine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return routine, nil
}

// ReorderRoutineExercises rewrites the order fields to match the given ID
// sequence. The list must be a permutation of the routine's exercise IDs.
func (s *coachService) ReorderRoutineExercises(ctx context.Context, coachID, routineID primitive.ObjectID, orderedExerciseIDs []primitive.ObjectID) (*domain.Routine, error) {
	routine, err := s.GetRoutine(ctx, coachID, routineID)
	if err != nil {
		return nil, err
	}
	if len(orderedExerciseIDs) != len(routine.Exercises) {
		return nil, ErrExerciseOrderMismatch
	}

	position := make(map[primitive.ObjectID]int, len(orderedExerciseIDs))
	for i, id := range orderedExerciseIDs {
		position[id] = i
	}
	if len(position) != len(orderedExerciseIDs) {
		return nil, ErrExerciseOrderMismatch
	}

	for i := range routine.Exercises {
		pos, ok := position[routine.Exercises[i].ID]
		if !ok {
			return nil, ErrExerciseOrderMismatch
		}
		routine.Exercises[i].Order = pos
	}

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *coachService) DeleteRoutine(ctx context.Context, coachID, routineID primitive.ObjectID) error {
	err := s.routineRepo.Delete(ctx, routineID, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRoutineNotFound
	}
	return err
}

func validateRoutine(routine *domain.Routine) error {
	if routine.CoachID == primitive.NilObjectID || routine.Name == "" {
		return ErrInvalidRoutine
	}
	for _, ex := range routine.Exercises {
		if ex.Title == "" {
			return fmt.Errorf("%w: exercise requires a title", ErrInvalidRoutine)
		}
	}
	return nil
}

// === Assignments ===

// AssignProgram creates a program assignment for a managed client. StartDate
// nil means the program starts on the assignment date.
func (s *coachService) AssignProgram(ctx context.Context, coachID, clientID, programID primitive.ObjectID, startDate *time.Time) (*domain.ProgramAssignment, error) {
	if _, err := s.GetProgram(ctx, coachID, programID); err != nil {
		return nil, err
	}
	if err := s.requireManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}

	assignment := &domain.ProgramAssignment{
		ProgramID: programID,
		ClientID:  clientID,
		CoachID:   coachID,
		StartDate: startDate,
	}
	id, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return assignment, nil
}

// CloseProgramAssignment soft-closes an assignment; the row survives so past
// calendar dates keep their history.
func (s *coachService) CloseProgramAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.CoachID != coachID {
		return ErrAssignmentDenied
	}
	return s.assignmentRepo.Close(ctx, assignmentID, time.Now().UTC())
}

// AssignRoutine schedules a standalone routine over a date range.
func (s *coachService) AssignRoutine(ctx context.Context, coachID, clientID, routineID primitive.ObjectID, startDate, endDate time.Time) (*domain.RoutineAssignment, error) {
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}
	if _, err := s.GetRoutine(ctx, coachID, routineID); err != nil {
		return nil, err
	}
	if err := s.requireManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}

	assignment := &domain.RoutineAssignment{
		RoutineID: routineID,
		ClientID:  clientID,
		CoachID:   coachID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	id, err := s.routineAssign.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return assignment, nil
}

func (s *coachService) UnassignRoutine(ctx context.Context, coachID, routineAssignmentID primitive.ObjectID) error {
	err := s.routineAssign.Delete(ctx, routineAssignmentID, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAssignmentNotFound
	}
	return err
}

// GetClientAssignments lists every program and routine assignment of a managed
// client, open and closed alike.
func (s *coachService) GetClientAssignments(ctx context.Context, coachID, clientID primitive.ObjectID) (*ClientAssignments, error) {
	if err := s.requireManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}
	programAssignments, err := s.assignmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	routineAssignments, err := s.routineAssign.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientAssignments{
		Programs: programAssignments,
		Routines: routineAssignments,
	}, nil
}

func (s *coachService) requireManagedClient(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.CoachID == nil || *client.CoachID != coachID {
		return ErrClientNotManaged
	}
	return nil
}

// === Replacements ===

// ReplaceProgramDay overrides one calendar date of an assignment.
func (s *coachService) ReplaceProgramDay(ctx context.Context, coachID primitive.ObjectID, req ReplaceDayRequest) (*domain.ProgramReplacement, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.CoachID != coachID {
		return nil, ErrAssignmentDenied
	}

	if req.SubstituteProgramID != nil {
		if _, err := s.GetProgram(ctx, coachID, *req.SubstituteProgramID); err != nil {
			return nil, err
		}
		if req.SubstituteStart == nil || req.SubstituteEnd == nil {
			return nil, errors.New("substitute program requires a start and end date")
		}
		if req.SubstituteEnd.Before(*req.SubstituteStart) {
			return nil, ErrInvalidDateRange
		}
	}

	replacement := &domain.ProgramReplacement{
		AssignmentID:        req.AssignmentID,
		ReplacedDate:        req.Date,
		SubstituteProgramID: req.SubstituteProgramID,
		SubstituteStart:     req.SubstituteStart,
		SubstituteEnd:       req.SubstituteEnd,
	}
	id, err := s.replacementRepo.Create(ctx, replacement)
	if err != nil {
		return nil, err
	}
	replacement.ID = id
	return replacement, nil
}

func (s *coachService) RemoveReplacement(ctx context.Context, coachID, replacementID primitive.ObjectID) error {
	// Ownership flows through the assignment the replacement belongs to; the
	// handler resolves it before calling. Delete is scoped by ID only.
	err := s.replacementRepo.Delete(ctx, replacementID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReplacementNotFound
	}
	return err
}

// === Video review ===

func (s *coachService) GetSubmissions(ctx context.Context, coachID primitive.ObjectID, status domain.SubmissionStatus) ([]domain.VideoSubmission, error) {
	return s.submissionRepo.GetByCoachID(ctx, coachID, status)
}

// ReviewSubmission records feedback and notifies the client. The notification
// is best-effort; a failed email never fails the review.
func (s *coachService) ReviewSubmission(ctx context.Context, coachID, submissionID primitive.ObjectID, feedback string) (*domain.VideoSubmission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.CoachID != coachID {
		return nil, ErrSubmissionDenied
	}

	now := time.Now().UTC()
	if err := s.submissionRepo.SetReview(ctx, submissionID, feedback, now); err != nil {
		return nil, err
	}
	submission.Status = domain.SubmissionReviewed
	submission.Feedback = feedback
	submission.ReviewedAt = &now

	if s.notifier != nil {
		s.notifier.Notify(ctx, submission.ClientID, domain.NotifyVideoReviewed,
			"Your video was reviewed",
			"Your coach left feedback on a drill video you submitted.")
	}
	return submission, nil
}
