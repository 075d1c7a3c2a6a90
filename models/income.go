package models

import (
	"time"

	"gorm.io/gorm"
)

// IncomeKind 收入类型：每月固定或一次性
type IncomeKind string

const (
	IncomeKindRecurring IncomeKind = "recurring"
	IncomeKindOneOff    IncomeKind = "one_off"
)

// Income 收入记录
// 固定收入使用 ReceiptDay（每月到账日），一次性收入使用 Date，两者互斥
type Income struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Source      string         `json:"source" gorm:"size:100;not null"` // 来源，如人名或“额外”
	Description string         `json:"description" gorm:"size:255"`
	Amount      Money          `json:"amount" gorm:"type:decimal(10,2);not null"`
	IsRecurring bool           `json:"is_recurring" gorm:"not null"`
	ReceiptDay  *int           `json:"receipt_day"`
	Date        *time.Time     `json:"date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Income) TableName() string {
	return "incomes"
}

// Kind 根据 IsRecurring 返回收入类型
func (i Income) Kind() IncomeKind {
	if i.IsRecurring {
		return IncomeKindRecurring
	}
	return IncomeKindOneOff
}
