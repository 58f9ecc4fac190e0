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
	ErrMessageDenied   = errors.New("users are not in a coaching relationship")
	ErrEmptyMessage    = errors.New("message body is empty")
	ErrNotificationNot = errors.New("notification not found")
)

const defaultThreadPageSize = 50

type MessageService interface {
	SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, body string) (*domain.Message, error)
	GetThread(ctx context.Context, requesterID, otherID primitive.ObjectID, before time.Time, limit int64) ([]domain.Message, error)
	MarkThreadRead(ctx context.Context, requesterID, otherID primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)

	GetNotifications(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID primitive.ObjectID) error
	MarkAllNotificationsRead(ctx context.Context, userID primitive.ObjectID) error
}

// messageService implements the MessageService interface. Messaging is only
// allowed inside a coach/client relationship.
type messageService struct {
	messageRepo      repository.MessageRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	notifier         *notify.Notifier
}

// NewMessageService creates a new instance of messageService.
func NewMessageService(
	messageRepo repository.MessageRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	notifier *notify.Notifier,
) MessageService {
	return &messageService{
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		notifier:         notifier,
	}
}

// SendMessage stores the message and notifies the receiver (best-effort).
func (s *messageService) SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, body string) (*domain.Message, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}
	sender, err := s.requireRelationship(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
	}
	id, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = id

	if s.notifier != nil {
		s.notifier.Notify(ctx, receiverID, domain.NotifyNewMessage,
			"New message",
			fmt.Sprintf("%s sent you a message.", sender.Name))
	}
	return message, nil
}

func (s *messageService) GetThread(ctx context.Context, requesterID, otherID primitive.ObjectID, before time.Time, limit int64) ([]domain.Message, error) {
	if _, err := s.requireRelationship(ctx, requesterID, otherID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultThreadPageSize {
		limit = defaultThreadPageSize
	}
	if before.IsZero() {
		before = time.Now().UTC()
	}
	return s.messageRepo.GetThread(ctx, requesterID, otherID, before, limit)
}

func (s *messageService) MarkThreadRead(ctx context.Context, requesterID, otherID primitive.ObjectID) error {
	return s.messageRepo.MarkThreadRead(ctx, requesterID, otherID)
}

func (s *messageService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}

// requireRelationship verifies the two users form a coach/client pair and
// returns the first user.
func (s *messageService) requireRelationship(ctx context.Context, userID, otherID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	paired := (user.CoachID != nil && *user.CoachID == other.ID) ||
		(other.CoachID != nil && *other.CoachID == user.ID)
	if !paired {
		return nil, ErrMessageDenied
	}
	return user, nil
}

// === Notifications ===

func (s *messageService) GetNotifications(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.notificationRepo.GetByUserID(ctx, userID, limit)
}

func (s *messageService) MarkNotificationRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNot
	}
	return err
}

func (s *messageService) MarkAllNotificationsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
