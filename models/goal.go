package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GoalTypeSavings      = "savings"
	GoalTypeExpenseLimit = "expense_limit"
	GoalTypeIncomeTarget = "income_target"

	GoalPeriodMonthly = "monthly"
	GoalPeriodYearly  = "yearly"
	GoalPeriodCustom  = "custom"
)

// Goal 目标：储蓄、支出上限或收入目标
type Goal struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	CategoryID    *uint          `json:"category_id" gorm:"index"`
	Name          string         `json:"name" gorm:"size:100;not null"`
	Description   string         `json:"description" gorm:"size:255"`
	Type          string         `json:"type" gorm:"size:20;not null"`
	TargetAmount  Money          `json:"target_amount" gorm:"type:decimal(10,2);not null"`
	CurrentAmount Money          `json:"current_amount" gorm:"type:decimal(10,2);not null"`
	Period        string         `json:"period" gorm:"size:20;not null"`
	TargetDate    *time.Time     `json:"target_date"`
	IsActive      bool           `json:"is_active"`
	Color         string         `json:"color" gorm:"size:20"`
	Icon          string         `json:"icon" gorm:"size:50"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Goal) TableName() string {
	return "goals"
}

// IsValidGoalType 校验目标类型
func IsValidGoalType(t string) bool {
	switch t {
	case GoalTypeSavings, GoalTypeExpenseLimit, GoalTypeIncomeTarget:
		return true
	}
	return false
}

// IsValidGoalPeriod 校验目标周期
func IsValidGoalPeriod(p string) bool {
	switch p {
	case GoalPeriodMonthly, GoalPeriodYearly, GoalPeriodCustom:
		return true
	}
	return false
}
