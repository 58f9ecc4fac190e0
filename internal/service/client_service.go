package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"coachpad/coaching-app/internal/calendar"
	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/notify"
	"coachpad/coaching-app/internal/repository"
	"coachpad/coaching-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCompletionDenied    = errors.New("completion does not belong to this client")
	ErrNoCoachAssigned     = errors.New("client has no coach assigned")
	ErrInvalidUploadTarget = errors.New("invalid upload target")
	ErrInvalidContentType  = errors.New("unsupported content type for video upload")
)

// Video uploads are limited to common container formats.
var allowedVideoContentTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

type ClientService interface {
	// Completion marking. Each method targets one completion table; the
	// handler picks the method from the item kind it is marking.
	MarkProgramDrill(ctx context.Context, clientID, drillID, assignmentID primitive.ObjectID) error
	UnmarkProgramDrill(ctx context.Context, clientID, drillID, assignmentID primitive.ObjectID) error
	MarkExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID, programDrillID string, date calendar.Date) error
	UnmarkExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID, programDrillID string, date calendar.Date) error
	MarkRoutineExercise(ctx context.Context, clientID, routineAssignmentID, exerciseID primitive.ObjectID) error
	UnmarkRoutineExercise(ctx context.Context, clientID, routineAssignmentID, exerciseID primitive.ObjectID) error

	// Video submissions: request a presigned PUT URL, then confirm the upload
	// to create the metadata row.
	RequestVideoUpload(ctx context.Context, clientID, drillID primitive.ObjectID, contentType string) (*VideoUploadTicket, error)
	ConfirmVideoUpload(ctx context.Context, clientID primitive.ObjectID, req ConfirmUploadRequest) (*domain.VideoSubmission, error)
	GetMySubmissions(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoSubmission, error)
	GetSubmissionDownloadURL(ctx context.Context, requester domain.AuthenticatedUser, submissionID primitive.ObjectID) (string, error)
}

// VideoUploadTicket carries the presigned URL and the object key the client
// must echo back when confirming.
type VideoUploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	ExpiresIn int    `json:"expiresInSeconds"`
}

// ConfirmUploadRequest finalizes an upload the client performed against the
// presigned URL.
type ConfirmUploadRequest struct {
	DrillID     primitive.ObjectID
	ObjectKey   string
	FileName    string
	ContentType string
	Size        int64
}

// clientService implements the ClientService interface.
type clientService struct {
	userRepo       repository.UserRepository
	assignmentRepo repository.ProgramAssignmentRepository
	routineAssign  repository.RoutineAssignmentRepository
	completionRepo repository.CompletionRepository
	submissionRepo repository.VideoSubmissionRepository
	fileStorage    storage.FileStorage
	notifier       *notify.Notifier
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	userRepo repository.UserRepository,
	assignmentRepo repository.ProgramAssignmentRepository,
	routineAssign repository.RoutineAssignmentRepository,
	completionRepo repository.CompletionRepository,
	submissionRepo repository.VideoSubmissionRepository,
	fileStorage storage.FileStorage,
	notifier *notify.Notifier,
) ClientService {
	return &clientService{
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		routineAssign:  routineAssign,
		completionRepo: completionRepo,
		submissionRepo: submissionRepo,
		fileStorage:    fileStorage,
		notifier:       notifier,
	}
}

// === Completion marking ===

// MarkProgramDrill marks a drill done within one of the client's program
// assignments. Upsert semantics make repeated marks a no-op.
func (s *clientService) MarkProgramDrill(ctx context.Context, clientID, drillID, assignmentID primitive.ObjectID) error {
	if err := s.requireOwnAssignment(ctx, clientID, assignmentID); err != nil {
		return err
	}
	return s.completionRepo.UpsertProgramDrill(ctx, &domain.ProgramDrillCompletion{
		DrillID:             drillID,
		ProgramAssignmentID: assignmentID,
		ClientID:            clientID,
	})
}

func (s *clientService) UnmarkProgramDrill(ctx context.Context, clientID, drillID, assignmentID primitive.ObjectID) error {
	if err := s.requireOwnAssignment(ctx, clientID, assignmentID); err != nil {
		return err
	}
	return s.completionRepo.DeleteProgramDrill(ctx, drillID, assignmentID, clientID)
}

// MarkExercise records a date-scoped completion. programDrillID is the hex of
// the parent drill when the exercise came from an expanded routine, or one of
// the standalone sentinels.
func (s *clientService) MarkExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID, programDrillID string, date calendar.Date) error {
	return s.completionRepo.UpsertExercise(ctx, &domain.ExerciseCompletion{
		ClientID:       clientID,
		ExerciseID:     exerciseID,
		ProgramDrillID: programDrillID,
		Date:           date.String(),
	})
}

func (s *clientService) UnmarkExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID, programDrillID string, date calendar.Date) error {
	return s.completionRepo.DeleteExercise(ctx, clientID, exerciseID, programDrillID, date.String())
}

// MarkRoutineExercise marks an exercise done inside a standalone routine
// assignment.
func (s *clientService) MarkRoutineExercise(ctx context.Context, clientID, routineAssignmentID, exerciseID primitive.ObjectID) error {
	if err := s.requireOwnRoutineAssignment(ctx, clientID, routineAssignmentID); err != nil {
		return err
	}
	return s.completionRepo.UpsertRoutineExercise(ctx, &domain.RoutineExerciseCompletion{
		RoutineAssignmentID: routineAssignmentID,
		ExerciseID:          exerciseID,
		ClientID:            clientID,
	})
}

func (s *clientService) UnmarkRoutineExercise(ctx context.Context, clientID, routineAssignmentID, exerciseID primitive.ObjectID) error {
	if err := s.requireOwnRoutineAssignment(ctx, clientID, routineAssignmentID); err != nil {
		return err
	}
	return s.completionRepo.DeleteRoutineExercise(ctx, routineAssignmentID, exerciseID, clientID)
}

func (s *clientService) requireOwnAssignment(ctx context.Context, clientID, assignmentID primitive.ObjectID) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.ClientID != clientID {
		return ErrCompletionDenied
	}
	return nil
}

func (s *clientService) requireOwnRoutineAssignment(ctx context.Context, clientID, routineAssignmentID primitive.ObjectID) error {
	assignment, err := s.routineAssign.GetByID(ctx, routineAssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.ClientID != clientID {
		return ErrCompletionDenied
	}
	return nil
}

// === Video submissions ===

// RequestVideoUpload issues a presigned PUT URL. The object key namespaces
// uploads by client and drill so keys never collide.
func (s *clientService) RequestVideoUpload(ctx context.Context, clientID, drillID primitive.ObjectID, contentType string) (*VideoUploadTicket, error) {
	if drillID == primitive.NilObjectID {
		return nil, ErrInvalidUploadTarget
	}
	if !allowedVideoContentTypes[contentType] {
		return nil, ErrInvalidContentType
	}

	objectKey := path.Join("submissions", clientID.Hex(), drillID.Hex(), uuid.NewString())
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &VideoUploadTicket{
		UploadURL: url,
		ObjectKey: objectKey,
		ExpiresIn: int(storage.DefaultPresignedURLExpiry / time.Second),
	}, nil
}

// ConfirmVideoUpload stores the submission metadata after the client finished
// the direct upload, and notifies the coach (best-effort).
func (s *clientService) ConfirmVideoUpload(ctx context.Context, clientID primitive.ObjectID, req ConfirmUploadRequest) (*domain.VideoSubmission, error) {
	if req.ObjectKey == "" || req.DrillID == primitive.NilObjectID {
		return nil, ErrInvalidUploadTarget
	}
	// Keys are namespaced per client; reject confirmations for keys outside
	// the client's own prefix.
	expectedPrefix := path.Join("submissions", clientID.Hex()) + "/"
	if !strings.HasPrefix(req.ObjectKey, expectedPrefix) {
		return nil, ErrInvalidUploadTarget
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.CoachID == nil || *client.CoachID == primitive.NilObjectID {
		return nil, ErrNoCoachAssigned
	}

	submission := &domain.VideoSubmission{
		ClientID:    clientID,
		CoachID:     *client.CoachID,
		DrillID:     req.DrillID,
		S3ObjectKey: req.ObjectKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		Status:      domain.SubmissionPending,
	}
	id, err := s.submissionRepo.Create(ctx, submission)
	if err != nil {
		return nil, err
	}
	submission.ID = id

	if s.notifier != nil {
		s.notifier.Notify(ctx, submission.CoachID, domain.NotifyVideoSubmitted,
			"New video submission",
			fmt.Sprintf("%s submitted a drill video for review.", client.Name))
	}
	return submission, nil
}

func (s *clientService) GetMySubmissions(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoSubmission, error) {
	return s.submissionRepo.GetByClientID(ctx, clientID)
}

// GetSubmissionDownloadURL issues a presigned GET URL. Both the submitting
// client and the reviewing coach may fetch it.
func (s *clientService) GetSubmissionDownloadURL(ctx context.Context, requester domain.AuthenticatedUser, submissionID primitive.ObjectID) (string, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrSubmissionNotFound
		}
		return "", err
	}
	if requester.ID != submission.ClientID && requester.ID != submission.CoachID {
		return "", ErrSubmissionDenied
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, submission.S3ObjectKey, storage.DefaultPresignedURLExpiry)
}
