package service

import (
	"context"
	"fmt"
	"strings"

	"budget/models"
	"budget/repository"
)

// NotificationView 附带展示样式的通知
type NotificationView struct {
	models.Notification
	Style models.NotificationStyle `json:"style"`
}

// NotificationService 用户通知
type NotificationService struct {
	store repository.Store
}

// NewNotificationService 创建通知服务
func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List 最新的在前
func (s *NotificationService) List(ctx context.Context, userID uint) ([]NotificationView, error) {
	list, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]NotificationView, 0, len(list))
	for _, n := range list {
		views = append(views, NotificationView{Notification: n, Style: models.StyleForNotification(n.Type)})
	}
	return views, nil
}

// Create 创建通知，类型必须是 warning/info/success/error 之一
func (s *NotificationService) Create(ctx context.Context, userID uint, typ, title, message string, relatedID *uint) (*models.Notification, error) {
	if !models.IsValidNotificationType(typ) {
		return nil, invalidInput("通知类型错误: %s", typ)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidInput("通知标题不能为空")
	}
	n := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkRead 标记单条已读，重复标记不报错
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*NotificationView, error) {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "通知")
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("%w: 通知", ErrNotFound)
	}
	if !n.IsRead {
		n.IsRead = true
		if err := s.store.UpdateNotification(ctx, n); err != nil {
			return nil, translateNotFound(err, "通知")
		}
	}
	return &NotificationView{Notification: *n, Style: models.StyleForNotification(n.Type)}, nil
}

// MarkAllRead 返回本次标记的数量
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
