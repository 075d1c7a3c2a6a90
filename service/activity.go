package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"budget/models"
	"budget/repository"
)

// ActivityLogger 操作日志写入器
//
// 日志写入发生在主操作提交之后，写入或发布失败只记录到标准日志，不影响主操作的结果。
type ActivityLogger struct {
	store     repository.Store
	publisher EventPublisher
	now       func() time.Time
}

// NewActivityLogger publisher 可以为 nil
func NewActivityLogger(store repository.Store, publisher EventPublisher, now func() time.Time) *ActivityLogger {
	if now == nil {
		now = time.Now
	}
	return &ActivityLogger{store: store, publisher: publisher, now: now}
}

// Log 追加一条操作日志
func (l *ActivityLogger) Log(ctx context.Context, userID uint, action, entityType string, entityID *uint, message string, metadata map[string]interface{}) {
	entry := &models.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Message:    message,
		CreatedAt:  l.now(),
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			log.Printf("操作日志元数据序列化失败: %v", err)
		} else {
			entry.Metadata = string(raw)
		}
	}

	if err := l.store.AppendActivityLog(ctx, entry); err != nil {
		log.Printf("写入操作日志失败 user=%d action=%s entity=%s: %v", userID, action, entityType, err)
		return
	}

	if l.publisher != nil {
		if err := l.publisher.PublishActivity(ctx, entry); err != nil {
			log.Printf("发布操作日志失败 id=%d: %v", entry.ID, err)
		}
	}
}

// List 最新的在前，limit <= 0 表示全部
func (l *ActivityLogger) List(ctx context.Context, userID uint, limit int) ([]models.ActivityLog, error) {
	return l.store.ListActivityLogs(ctx, userID, limit)
}

func idPtr(id uint) *uint {
	return &id
}
