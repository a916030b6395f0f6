package service

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/pkg/mongo"
	"context"
	"time"
)

const notificationPageSize = 50

type NotificationService interface {
	GetNotificationList(ctx context.Context, userID string, page int) ([]*dto.NotificationDTO, error)
	GetUnreadCount(ctx context.Context, userID string) (*dto.NotificationUnreadDTO, error)
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
}

func NewNotificationService(notificationRepo mongo.NotificationRepo) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID string, page int) ([]*dto.NotificationDTO, error) {
	if page < 1 {
		page = 1
	}
	offset := int64(page-1) * notificationPageSize

	list, err := s.notificationRepo.GetNotificationList(ctx, userID, notificationPageSize, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		res = append(res, &dto.NotificationDTO{
			ID:        n.ID.Hex(),
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.DateTime),
		})
	}
	return res, nil
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID string) (*dto.NotificationUnreadDTO, error) {
	count, err := s.notificationRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationUnreadDTO{UnreadCount: count}, nil
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}
