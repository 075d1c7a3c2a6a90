package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"budget/models"
	"budget/repository"
)

// IncomeInput 创建收入参数
// 固定收入填写 ReceiptDay，一次性收入填写 Date。IsRecurring 未指定时按是否给出 Date 推断
type IncomeInput struct {
	Source      string
	Description string
	Amount      string
	IsRecurring *bool
	ReceiptDay  *int
	Date        *time.Time
}

// IncomeUpdate 收入部分更新，切换类型时另一类型的日期字段会被清空
type IncomeUpdate struct {
	Source      *string
	Description *string
	Amount      *string
	IsRecurring *bool
	ReceiptDay  *int
	Date        *time.Time
}

// IncomeService 收入管理
type IncomeService struct {
	store    repository.Store
	activity *ActivityLogger
}

// NewIncomeService 创建收入服务
func NewIncomeService(store repository.Store, activity *ActivityLogger) *IncomeService {
	return &IncomeService{store: store, activity: activity}
}

// List 用户全部收入
func (s *IncomeService) List(ctx context.Context, userID uint) ([]models.Income, error) {
	return s.store.ListIncomes(ctx, userID)
}

// Get 获取单条收入
func (s *IncomeService) Get(ctx context.Context, userID, id uint) (*models.Income, error) {
	return s.owned(ctx, userID, id)
}

// Create 一次性收入同时记一笔收入流水
func (s *IncomeService) Create(ctx context.Context, userID uint, in IncomeInput) (*models.Income, error) {
	source := strings.TrimSpace(in.Source)
	if source == "" {
		return nil, invalidInput("收入来源不能为空")
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	income := &models.Income{
		UserID:      userID,
		Source:      source,
		Description: in.Description,
		Amount:      amount,
		IsRecurring: in.Date == nil,
		ReceiptDay:  in.ReceiptDay,
		Date:        in.Date,
	}
	if in.IsRecurring != nil {
		income.IsRecurring = *in.IsRecurring
	}
	if err := validateIncomeKind(income); err != nil {
		return nil, err
	}

	if err := s.store.CreateIncome(ctx, income); err != nil {
		return nil, err
	}

	if !income.IsRecurring {
		s.recordTransaction(ctx, income)
	}

	s.activity.Log(ctx, userID, models.ActionCreate, models.EntityIncome, idPtr(income.ID),
		fmt.Sprintf("创建收入: %s", income.Source),
		map[string]interface{}{"amount": income.Amount.StringFixed(2), "kind": income.Kind()})
	return income, nil
}

// Update 合并字段后重新校验收入类型
func (s *IncomeService) Update(ctx context.Context, userID, id uint, in IncomeUpdate) (*models.Income, error) {
	income, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	before := *income
	changes := make(map[string]change)

	if in.Source != nil {
		source := strings.TrimSpace(*in.Source)
		if source == "" {
			return nil, invalidInput("收入来源不能为空")
		}
		income.Source = source
	}
	if in.Description != nil {
		income.Description = *in.Description
	}
	if in.Amount != nil {
		amount, err := ParseAmount(*in.Amount)
		if err != nil {
			return nil, err
		}
		income.Amount = amount
	}
	if in.IsRecurring != nil && *in.IsRecurring != income.IsRecurring {
		income.IsRecurring = *in.IsRecurring
		income.ReceiptDay = nil
		income.Date = nil
	}
	if in.ReceiptDay != nil {
		income.ReceiptDay = in.ReceiptDay
	}
	if in.Date != nil {
		income.Date = in.Date
	}
	if err := validateIncomeKind(income); err != nil {
		return nil, err
	}

	if err := s.store.UpdateIncome(ctx, income); err != nil {
		return nil, translateNotFound(err, "收入")
	}
	s.syncTransaction(ctx, &before, income)

	if before.Source != income.Source {
		changes["source"] = change{Old: before.Source, New: income.Source}
	}
	if before.Description != income.Description {
		changes["description"] = change{Old: before.Description, New: income.Description}
	}
	if !before.Amount.Equal(income.Amount.Decimal) {
		changes["amount"] = change{Old: before.Amount.StringFixed(2), New: income.Amount.StringFixed(2)}
	}
	if before.IsRecurring != income.IsRecurring {
		changes["is_recurring"] = change{Old: before.IsRecurring, New: income.IsRecurring}
	}
	if !equalPtr(before.ReceiptDay, income.ReceiptDay) {
		changes["receipt_day"] = change{Old: before.ReceiptDay, New: income.ReceiptDay}
	}
	if !equalTimePtr(before.Date, income.Date) {
		changes["date"] = change{Old: before.Date, New: income.Date}
	}

	s.activity.Log(ctx, userID, models.ActionUpdate, models.EntityIncome, idPtr(income.ID),
		fmt.Sprintf("更新收入: %s", income.Source), map[string]interface{}{"changes": changes})
	return income, nil
}

// Delete 删除收入，已记录的流水保留
func (s *IncomeService) Delete(ctx context.Context, userID, id uint) error {
	income, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return translateNotFound(err, "收入")
	}

	s.activity.Log(ctx, userID, models.ActionDelete, models.EntityIncome, idPtr(id),
		fmt.Sprintf("删除收入: %s", income.Source), map[string]interface{}{"snapshot": income})
	return nil
}

// syncTransaction 一次性收入的日期或金额变化、或收入类型切换时重写收入流水
func (s *IncomeService) syncTransaction(ctx context.Context, before, after *models.Income) {
	if before.IsRecurring && after.IsRecurring {
		return
	}
	if !before.IsRecurring && !after.IsRecurring &&
		equalTimePtr(before.Date, after.Date) && before.Amount.Equal(after.Amount.Decimal) {
		return
	}
	if !before.IsRecurring {
		if err := s.store.DeleteIncomeTransactions(ctx, before.ID); err != nil {
			log.Printf("删除收入流水失败 income=%d: %v", before.ID, err)
		}
	}
	if !after.IsRecurring {
		s.recordTransaction(ctx, after)
	}
}

func (s *IncomeService) recordTransaction(ctx context.Context, income *models.Income) {
	d := *income.Date
	tx := &models.Transaction{
		UserID:   income.UserID,
		IncomeID: idPtr(income.ID),
		Type:     models.TransactionTypeIncome,
		Amount:   income.Amount,
		Date:     d,
		Month:    int(d.Month()),
		Year:     d.Year(),
		IsPaid:   true,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		log.Printf("记录收入流水失败 income=%d: %v", income.ID, err)
	}
}

func (s *IncomeService) owned(ctx context.Context, userID, id uint) (*models.Income, error) {
	income, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "收入")
	}
	if income.UserID != userID {
		return nil, fmt.Errorf("%w: 收入", ErrNotFound)
	}
	return income, nil
}

// validateIncomeKind 固定收入只有到账日，一次性收入只有日期
func validateIncomeKind(income *models.Income) error {
	if income.IsRecurring {
		if income.ReceiptDay == nil || !validDay(*income.ReceiptDay) {
			return invalidInput("固定收入的到账日必须在 1-31 之间")
		}
		if income.Date != nil {
			return invalidInput("固定收入不能设置日期")
		}
		return nil
	}
	if income.Date == nil || income.Date.IsZero() {
		return invalidInput("一次性收入必须设置日期")
	}
	if income.ReceiptDay != nil {
		return invalidInput("一次性收入不能设置到账日")
	}
	return nil
}
