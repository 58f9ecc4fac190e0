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
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonDenied       = errors.New("access denied to this lesson")
	ErrLessonConflict     = errors.New("lesson slot conflicts with an existing lesson")
	ErrLessonNotScheduled = errors.New("lesson is not in scheduled state")
	ErrInvalidLessonSlot  = errors.New("lesson must end after it starts")
)

type LessonService interface {
	// CreateLesson schedules a lesson. When assignmentID is set, the program
	// day on the lesson's date is replaced (deleted) for that assignment.
	CreateLesson(ctx context.Context, coachID primitive.ObjectID, req CreateLessonRequest) (*domain.Lesson, error)
	GetCoachLessons(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	GetClientLessons(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	CancelLesson(ctx context.Context, coachID, lessonID primitive.ObjectID) error
	// SwapLessons atomically exchanges the time slots of two lessons and moves
	// any calendar replacements they created along with them.
	SwapLessons(ctx context.Context, coachID, lessonAID, lessonBID primitive.ObjectID) error
}

// CreateLessonRequest carries everything needed to schedule a lesson.
type CreateLessonRequest struct {
	ClientID     primitive.ObjectID
	StartsAt     time.Time
	EndsAt       time.Time
	Note         string
	AssignmentID *primitive.ObjectID // program assignment whose day the lesson displaces
}

// lessonService implements the LessonService interface. The mongo client is
// needed for the swap transaction; everything else goes through repositories.
type lessonService struct {
	lessonRepo      repository.LessonRepository
	replacementRepo repository.ReplacementRepository
	assignmentRepo  repository.ProgramAssignmentRepository
	userRepo        repository.UserRepository
	mongoClient     *mongo.Client
	notifier        *notify.Notifier
	log             *zap.Logger
}

// NewLessonService creates a new instance of lessonService.
func NewLessonService(
	lessonRepo repository.LessonRepository,
	replacementRepo repository.ReplacementRepository,
	assignmentRepo repository.ProgramAssignmentRepository,
	userRepo repository.UserRepository,
	mongoClient *mongo.Client,
	notifier *notify.Notifier,
	log *zap.Logger,
) LessonService {
	if log == nil {
		log = zap.NewNop()
	}
	return &lessonService{
		lessonRepo:      lessonRepo,
		replacementRepo: replacementRepo,
		assignmentRepo:  assignmentRepo,
		userRepo:        userRepo,
		mongoClient:     mongoClient,
		notifier:        notifier,
		log:             log,
	}
}

// CreateLesson schedules a lesson after checking the coach's calendar for
// conflicts. Back-to-back lessons don't conflict.
func (s *lessonService) CreateLesson(ctx context.Context, coachID primitive.ObjectID, req CreateLessonRequest) (*domain.Lesson, error) {
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, ErrInvalidLessonSlot
	}

	client, err := s.userRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.CoachID == nil || *client.CoachID != coachID {
		return nil, ErrClientNotManaged
	}

	overlapping, err := s.lessonRepo.FindOverlapping(ctx, coachID, req.StartsAt, req.EndsAt, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrLessonConflict
	}

	lesson := &domain.Lesson{
		CoachID:  coachID,
		ClientID: req.ClientID,
		StartsAt: req.StartsAt.UTC(),
		EndsAt:   req.EndsAt.UTC(),
		Note:     req.Note,
		Status:   domain.LessonScheduled,
	}
	id, err := s.lessonRepo.Create(ctx, lesson)
	if err != nil {
		return nil, err
	}
	lesson.ID = id

	if req.AssignmentID != nil {
		if err := s.displaceProgramDay(ctx, coachID, *req.AssignmentID, lesson); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, lesson.ClientID, domain.NotifyLessonScheduled,
			"Lesson scheduled",
			fmt.Sprintf("Your coach scheduled a lesson on %s.", lesson.StartsAt.Format("2006-01-02 15:04")))
	}
	return lesson, nil
}

// displaceProgramDay records a replacement that deletes the program day on the
// lesson's date. The empty substitute is what marks the day deleted.
func (s *lessonService) displaceProgramDay(ctx context.Context, coachID, assignmentID primitive.ObjectID, lesson *domain.Lesson) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.CoachID != coachID || assignment.ClientID != lesson.ClientID {
		return ErrAssignmentDenied
	}

	_, err = s.replacementRepo.Create(ctx, &domain.ProgramReplacement{
		AssignmentID: assignmentID,
		ReplacedDate: lesson.StartsAt,
		LessonID:     lesson.ID.Hex(),
	})
	return err
}

func (s *lessonService) GetCoachLessons(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return s.lessonRepo.GetByCoachID(ctx, coachID, from, to)
}

func (s *lessonService) GetClientLessons(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return s.lessonRepo.GetByClientID(ctx, clientID, from, to)
}

// CancelLesson cancels a scheduled lesson and removes the replacement it
// created, restoring the displaced program day.
func (s *lessonService) CancelLesson(ctx context.Context, coachID, lessonID primitive.ObjectID) error {
	lesson, err := s.requireCoachLesson(ctx, coachID, lessonID)
	if err != nil {
		return err
	}
	if lesson.Status != domain.LessonScheduled {
		return ErrLessonNotScheduled
	}

	if err := s.lessonRepo.UpdateStatus(ctx, lessonID, domain.LessonCancelled); err != nil {
		return err
	}

	replacement, err := s.replacementRepo.GetByLessonID(ctx, lessonID.Hex())
	if err == nil {
		if delErr := s.replacementRepo.Delete(ctx, replacement.ID); delErr != nil {
			s.log.Warn("failed to remove replacement for cancelled lesson",
				zap.String("lessonId", lessonID.Hex()),
				zap.Error(delErr))
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("failed to look up replacement for cancelled lesson",
			zap.String("lessonId", lessonID.Hex()),
			zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, lesson.ClientID, domain.NotifyLessonCancelled,
			"Lesson cancelled",
			fmt.Sprintf("Your lesson on %s was cancelled.", lesson.StartsAt.Format("2006-01-02 15:04")))
	}
	return nil
}

// SwapLessons exchanges the slots of two scheduled lessons inside one mongo
// transaction, moving their calendar replacements to the new dates. Either
// both lessons move or neither does.
func (s *lessonService) SwapLessons(ctx context.Context, coachID, lessonAID, lessonBID primitive.ObjectID) error {
	if lessonAID == lessonBID {
		return errors.New("cannot swap a lesson with itself")
	}

	lessonA, err := s.requireCoachLesson(ctx, coachID, lessonAID)
	if err != nil {
		return err
	}
	lessonB, err := s.requireCoachLesson(ctx, coachID, lessonBID)
	if err != nil {
		return err
	}
	if lessonA.Status != domain.LessonScheduled || lessonB.Status != domain.LessonScheduled {
		return ErrLessonNotScheduled
	}

	session, err := s.mongoClient.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := s.lessonRepo.UpdateSlot(sc, lessonA.ID, lessonB.StartsAt, lessonB.EndsAt); err != nil {
			return nil, err
		}
		if err := s.lessonRepo.UpdateSlot(sc, lessonB.ID, lessonA.StartsAt, lessonA.EndsAt); err != nil {
			return nil, err
		}
		if err := s.moveReplacement(sc, lessonA.ID, lessonB.StartsAt); err != nil {
			return nil, err
		}
		if err := s.moveReplacement(sc, lessonB.ID, lessonA.StartsAt); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		body := "Two of your lessons exchanged time slots. Check your calendar for the new times."
		s.notifier.Notify(ctx, lessonA.ClientID, domain.NotifyLessonSwapped, "Lesson time changed", body)
		if lessonB.ClientID != lessonA.ClientID {
			s.notifier.Notify(ctx, lessonB.ClientID, domain.NotifyLessonSwapped, "Lesson time changed", body)
		}
	}
	return nil
}

// moveReplacement re-dates the replacement a lesson created, if it has one.
func (s *lessonService) moveReplacement(ctx context.Context, lessonID primitive.ObjectID, newStart time.Time) error {
	replacement, err := s.replacementRepo.GetByLessonID(ctx, lessonID.Hex())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil // lesson never displaced a program day
		}
		return err
	}
	return s.replacementRepo.UpdateDate(ctx, replacement.ID, newStart)
}

func (s *lessonService) requireCoachLesson(ctx context.Context, coachID, lessonID primitive.ObjectID) (*domain.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.CoachID != coachID {
		return nil, ErrLessonDenied
	}
	return lesson, nil
}
