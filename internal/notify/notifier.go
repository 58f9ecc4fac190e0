package notify

import (
	"context"
	"fmt"

	"coachpad/coaching-app/internal/domain"
	"coachpad/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier fans a notification out to the in-app feed and email. Every call is
// best-effort: failures are logged and swallowed so they can never abort the
// mutation that triggered them.
type Notifier struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	email         EmailSender
	log           *zap.Logger
}

// NewNotifier wires the notifier. A nil logger is replaced with a no-op one.
func NewNotifier(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	email EmailSender,
	log *zap.Logger,
) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		notifications: notifications,
		users:         users,
		email:         email,
		log:           log,
	}
}

// Notify writes the in-app row and sends the email. Neither failure is
// returned to the caller.
func (n *Notifier) Notify(ctx context.Context, userID primitive.ObjectID, kind domain.NotificationKind, title, body string) {
	if _, err := n.notifications.Create(ctx, &domain.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}); err != nil {
		n.log.Warn("failed to write notification",
			zap.String("userId", userID.Hex()),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}

	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		n.log.Warn("failed to load user for notification email",
			zap.String("userId", userID.Hex()),
			zap.Error(err))
		return
	}

	html := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", user.Name, body)
	if err := n.email.Send(ctx, user.Email, title, html); err != nil {
		n.log.Warn("failed to send notification email",
			zap.String("userId", userID.Hex()),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}
