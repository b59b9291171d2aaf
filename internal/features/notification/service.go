package notification

import (
	"context"
	"time"

	"hobby-lobby/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Dispatcher is the fire-and-forget sink other features publish events to.
// Delivery failures are logged and never surface to the publishing operation.
type Dispatcher interface {
	Dispatch(recipients []primitive.ObjectID, notifType NotificationType, title, message string, relatedID *primitive.ObjectID)
}

type NotificationService interface {
	Dispatcher
	List(ctx context.Context, userID primitive.ObjectID) ([]Notification, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) (*Notification, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	repo   NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// Dispatch fans a notification out to every recipient in the background.
// The caller's request lifecycle is not tied to the write.
func (s *NotificationServiceImpl) Dispatch(recipients []primitive.ObjectID, notifType NotificationType, title, message string, relatedID *primitive.ObjectID) {
	if len(recipients) == 0 {
		return
	}

	notifications := make([]Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, Notification{
			UserID:    userID,
			Type:      notifType,
			Title:     title,
			Message:   message,
			RelatedID: relatedID,
			IsRead:    false,
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.repo.CreateMany(ctx, notifications); err != nil {
			s.logger.Error("notification dispatch failed",
				zap.String("type", string(notifType)),
				zap.Int("recipients", len(notifications)),
				zap.Error(err))
		}
	}()
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID primitive.ObjectID) ([]Notification, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) (*Notification, error) {
	existing, err := s.findOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}

	existing.IsRead = true
	return existing, nil
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationServiceImpl) Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	if _, err := s.findOwned(ctx, userID, notificationID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, notificationID)
}

func (s *NotificationServiceImpl) findOwned(ctx context.Context, userID, notificationID primitive.ObjectID) (*Notification, error) {
	existing, err := s.repo.FindByID(ctx, notificationID)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Notification not found")
	}
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperr.Forbidden("Notification belongs to another user")
	}
	return existing, nil
}
