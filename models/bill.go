package models

import (
	"time"

	"gorm.io/gorm"
)

// Bill 账单（应付款项）
// IsPaid 为 false 时三个付款字段必须为空；为 true 时 PaymentDate 与 PaymentMethod 必须有值
type Bill struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      uint    `json:"user_id" gorm:"index;not null"`
	CategoryID  *uint   `json:"category_id" gorm:"index"`
	Name        string  `json:"name" gorm:"size:100;not null"`
	Description *string `json:"description" gorm:"size:255"`
	Amount      Money   `json:"amount" gorm:"type:decimal(10,2);not null"`
	DueDay      int     `json:"due_day" gorm:"not null"` // 每月到期日 1-31
	IsPaid      bool    `json:"is_paid" gorm:"default:false;not null"`
	IsRecurring bool    `json:"is_recurring" gorm:"not null"`

	// 分期信息：账单表示一笔大额款项中的一期
	IsInstallment      bool   `json:"is_installment" gorm:"default:false"`
	TotalInstallments  *int   `json:"total_installments"`
	CurrentInstallment *int   `json:"current_installment"`
	OriginalAmount     *Money `json:"original_amount" gorm:"type:decimal(10,2)"`

	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod *string    `json:"payment_method" gorm:"size:50"`
	PaymentSource *string    `json:"payment_source" gorm:"size:100"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Bill) TableName() string {
	return "bills"
}

// ClearPayment 回到待付款状态并清空付款信息
func (b *Bill) ClearPayment() {
	b.IsPaid = false
	b.PaymentDate = nil
	b.PaymentMethod = nil
	b.PaymentSource = nil
}
