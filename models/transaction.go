package models

import "time"

const (
	TransactionTypeExpense = "expense"
	TransactionTypeIncome  = "income"
)

// Transaction 某月实际发生的一笔收支，区别于账单/收入模板
type Transaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	BillID    *uint     `json:"bill_id" gorm:"index"`
	IncomeID  *uint     `json:"income_id" gorm:"index"`
	Type      string    `json:"type" gorm:"size:20;not null"`
	Amount    Money     `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date      time.Time `json:"date" gorm:"not null"`
	Month     int       `json:"month" gorm:"index:idx_tx_period;not null"`
	Year      int       `json:"year" gorm:"index:idx_tx_period;not null"`
	IsPaid    bool      `json:"is_paid" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
