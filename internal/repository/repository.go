package repository

import (
	"context"
	"time"

	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program data.
// Programs embed their full week/day/drill tree, so Update replaces the whole
// document.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// RoutineRepository defines the interface for interacting with routine data.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Routine, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// ProgramAssignmentRepository manages program-to-client assignments. Close is a
// soft close: the row is kept with completedAt set, and stops projecting onto
// the calendar.
type ProgramAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error)
	GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.ProgramAssignment, error)
	Close(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// ReplacementRepository manages per-date overrides of program assignments.
type ReplacementRepository interface {
	Create(ctx context.Context, replacement *domain.ProgramReplacement) (primitive.ObjectID, error)
	GetByAssignmentIDs(ctx context.Context, assignmentIDs []primitive.ObjectID) ([]domain.ProgramReplacement, error)
	GetByLessonID(ctx context.Context, lessonID string) (*domain.ProgramReplacement, error)
	UpdateDate(ctx context.Context, id primitive.ObjectID, replacedDate time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutineAssignmentRepository manages standalone routine assignments.
type RoutineAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.RoutineAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineAssignment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.RoutineAssignment, error)
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// ClientCompletions bundles every completion table's rows for one client, the
// shape the calendar snapshot loader consumes.
type ClientCompletions struct {
	Legacy           []domain.DrillCompletion
	ProgramDrills    []domain.ProgramDrillCompletion
	Exercises        []domain.ExerciseCompletion
	RoutineExercises []domain.RoutineExerciseCompletion
}

// CompletionRepository covers the four completion collections. All writes are
// upserts on the collection's natural key, so marking the same thing done twice
// is a no-op. Unmark deletes by the same key and succeeds even when no row
// exists.
type CompletionRepository interface {
	UpsertProgramDrill(ctx context.Context, completion *domain.ProgramDrillCompletion) error
	DeleteProgramDrill(ctx context.Context, drillID, assignmentID, clientID primitive.ObjectID) error

	UpsertExercise(ctx context.Context, completion *domain.ExerciseCompletion) error
	DeleteExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID, programDrillID, date string) error

	UpsertRoutineExercise(ctx context.Context, completion *domain.RoutineExerciseCompletion) error
	DeleteRoutineExercise(ctx context.Context, routineAssignmentID, exerciseID, clientID primitive.ObjectID) error

	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*ClientCompletions, error)
}

// LessonRepository manages scheduled lessons.
type LessonRepository interface {
	Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	FindOverlapping(ctx context.Context, coachID primitive.ObjectID, start, end time.Time, excludeID primitive.ObjectID) ([]domain.Lesson, error)
	UpdateSlot(ctx context.Context, id primitive.ObjectID, startsAt, endsAt time.Time) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.LessonStatus) error
}

// MessageRepository manages the coach/client conversation threads.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error)
	GetThread(ctx context.Context, userA, userB primitive.ObjectID, before time.Time, limit int64) ([]domain.Message, error)
	MarkThreadRead(ctx context.Context, receiverID, senderID primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// VideoSubmissionRepository manages drill video submission metadata.
type VideoSubmissionRepository interface {
	Create(ctx context.Context, submission *domain.VideoSubmission) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.VideoSubmission, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID, status domain.SubmissionStatus) ([]domain.VideoSubmission, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoSubmission, error)
	SetReview(ctx context.Context, id primitive.ObjectID, feedback string, reviewedAt time.Time) error
}

// NotificationRepository manages in-app notification rows.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}
