package models

import "time"

const (
	NotificationWarning = "warning"
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationError   = "error"
)

// Notification 用户通知
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Message   string    `json:"message" gorm:"size:500"`
	Type      string    `json:"type" gorm:"size:20;not null"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	RelatedID *uint     `json:"related_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationStyle 前端展示用的图标和颜色
type NotificationStyle struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var notificationStyles = map[string]NotificationStyle{
	NotificationWarning: {Icon: "alert-triangle", Color: "#f59e0b"},
	NotificationInfo:    {Icon: "info", Color: "#3b82f6"},
	NotificationSuccess: {Icon: "check-circle", Color: "#10b981"},
	NotificationError:   {Icon: "x-circle", Color: "#ef4444"},
}

// IsValidNotificationType 校验通知类型
func IsValidNotificationType(t string) bool {
	_, ok := notificationStyles[t]
	return ok
}

// StyleForNotification 未知类型按 info 处理
func StyleForNotification(t string) NotificationStyle {
	if s, ok := notificationStyles[t]; ok {
		return s
	}
	return notificationStyles[NotificationInfo]
}
