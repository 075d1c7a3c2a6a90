package models

import "time"

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionPayment = "payment"

	EntityBill     = "bill"
	EntityIncome   = "income"
	EntityCategory = "category"
	EntityGoal     = "goal"
)

// ActivityLog 操作日志，只追加，不修改不删除
type ActivityLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Action     string    `json:"action" gorm:"size:20;not null"`
	EntityType string    `json:"entity_type" gorm:"size:20;not null"`
	EntityID   *uint     `json:"entity_id"`
	Message    string    `json:"message" gorm:"size:500"`
	Metadata   string    `json:"metadata" gorm:"type:text"` // JSON 序列化的结构化信息
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
