package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService interface {
	ListMyNotifications(ctx context.Context, actor Actor, page, limit int, unreadOnly bool) ([]model.Notification, int64, error)
	UnreadCount(ctx context.Context, actor Actor) (int64, error)
	MarkRead(ctx context.Context, actor Actor, id string) error
	MarkAllRead(ctx context.Context, actor Actor) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) ListMyNotifications(ctx context.Context, actor Actor, page, limit int, unreadOnly bool) ([]model.Notification, int64, error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.notificationRepo.ListByUser(ctx, userID, page, limit, unreadOnly)
}

func (s *notificationService) UnreadCount(ctx context.Context, actor Actor) (int64, error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead only touches notifications addressed to the caller.
func (s *notificationService) MarkRead(ctx context.Context, actor Actor, id string) error {
	nid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid notification id", ErrInvalidInput)
	}

	notification, err := s.notificationRepo.FindByID(ctx, nid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	if notification.UserID.String() != actor.UserID {
		return ErrForbidden
	}
	if notification.IsRead {
		return nil
	}

	return s.notificationRepo.MarkRead(ctx, nid, time.Now())
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor Actor) error {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	return s.notificationRepo.MarkAllRead(ctx, userID, time.Now())
}
