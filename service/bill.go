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

// BillInput 创建账单参数，Amount 为十进制字符串
type BillInput struct {
	CategoryID         *uint
	Name               string
	Description        *string
	Amount             string
	DueDay             int
	IsRecurring        *bool // 未指定时为 true
	IsInstallment      bool
	TotalInstallments  *int
	CurrentInstallment *int
	OriginalAmount     *string
}

// BillUpdate 账单部分更新，nil 字段保持不变
// CategoryID 传 0 表示取消分类。IsPaid 为 true 时必须同时给出 PaymentDate 和 PaymentMethod，
// 为 false 时清空全部付款信息
type BillUpdate struct {
	CategoryID         *uint
	Name               *string
	Description        *string
	Amount             *string
	DueDay             *int
	IsRecurring        *bool
	IsInstallment      *bool
	TotalInstallments  *int
	CurrentInstallment *int

	IsPaid        *bool
	PaymentDate   *time.Time
	PaymentMethod *string
	PaymentSource *string
}

func (u BillUpdate) hasPaymentFields() bool {
	return u.PaymentDate != nil || u.PaymentMethod != nil || u.PaymentSource != nil
}

// PaymentInput 标记已付所需信息
type PaymentInput struct {
	Date   *time.Time
	Method string
	Source *string
}

// BillService 账单生命周期管理
type BillService struct {
	store    repository.Store
	activity *ActivityLogger
	now      func() time.Time
}

// NewBillService 创建账单服务
func NewBillService(store repository.Store, activity *ActivityLogger, now func() time.Time) *BillService {
	if now == nil {
		now = time.Now
	}
	return &BillService{store: store, activity: activity, now: now}
}

// List 返回用户全部账单及基于 ref 当天计算的状态
func (s *BillService) List(ctx context.Context, userID uint, ref time.Time) ([]BillView, error) {
	bills, err := s.store.ListBills(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newBillViews(bills, ref.Day()), nil
}

// Get 获取单个账单
func (s *BillService) Get(ctx context.Context, userID, id uint) (*BillView, error) {
	bill, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(bill), nil
}

// Create 新账单总是未付状态
func (s *BillService) Create(ctx context.Context, userID uint, in BillInput) (*BillView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("账单名称不能为空")
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if !validDay(in.DueDay) {
		return nil, invalidInput("到期日必须在 1-31 之间")
	}
	categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		UserID:             userID,
		CategoryID:         categoryID,
		Name:               name,
		Description:        in.Description,
		Amount:             amount,
		DueDay:             in.DueDay,
		IsRecurring:        true,
		IsInstallment:      in.IsInstallment,
		TotalInstallments:  in.TotalInstallments,
		CurrentInstallment: in.CurrentInstallment,
	}
	if in.IsRecurring != nil {
		bill.IsRecurring = *in.IsRecurring
	}
	if in.OriginalAmount != nil {
		orig, err := ParseAmount(*in.OriginalAmount)
		if err != nil {
			return nil, err
		}
		bill.OriginalAmount = &orig
	}
	if err := validateInstallment(bill); err != nil {
		return nil, err
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, userID, models.ActionCreate, models.EntityBill, idPtr(bill.ID),
		fmt.Sprintf("创建账单: %s", bill.Name),
		map[string]interface{}{"category_id": bill.CategoryID, "amount": bill.Amount.StringFixed(2)})

	return s.view(bill), nil
}

// Update 合并字段并记录变更
func (s *BillService) Update(ctx context.Context, userID, id uint, in BillUpdate) (*BillView, error) {
	bill, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	before := *bill

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalidInput("账单名称不能为空")
		}
		bill.Name = name
	}
	if in.Description != nil {
		bill.Description = in.Description
	}
	if in.Amount != nil {
		amount, err := ParseAmount(*in.Amount)
		if err != nil {
			return nil, err
		}
		bill.Amount = amount
	}
	if in.DueDay != nil {
		if !validDay(*in.DueDay) {
			return nil, invalidInput("到期日必须在 1-31 之间")
		}
		bill.DueDay = *in.DueDay
	}
	if in.IsRecurring != nil {
		bill.IsRecurring = *in.IsRecurring
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			bill.CategoryID = nil
		} else {
			categoryID, err := s.resolveCategory(ctx, in.CategoryID)
			if err != nil {
				return nil, err
			}
			bill.CategoryID = categoryID
		}
	}
	if in.IsInstallment != nil {
		bill.IsInstallment = *in.IsInstallment
	}
	if in.TotalInstallments != nil {
		bill.TotalInstallments = in.TotalInstallments
	}
	if in.CurrentInstallment != nil {
		bill.CurrentInstallment = in.CurrentInstallment
	}
	if err := validateInstallment(bill); err != nil {
		return nil, err
	}

	if err := applyPayment(bill, in); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, translateNotFound(err, "账单")
	}
	s.syncTransactions(ctx, &before, bill)

	action := models.ActionUpdate
	message := fmt.Sprintf("更新账单: %s", bill.Name)
	switch {
	case !before.IsPaid && bill.IsPaid:
		action = models.ActionPayment
		message = fmt.Sprintf("账单已付: %s", bill.Name)
	case before.IsPaid && !bill.IsPaid:
		action = models.ActionPayment
		message = fmt.Sprintf("账单改为未付: %s", bill.Name)
	}
	s.activity.Log(ctx, userID, action, models.EntityBill, idPtr(bill.ID), message,
		map[string]interface{}{"changes": billChanges(&before, bill)})

	return s.view(bill), nil
}

// MarkPaid 唯一进入已付状态的入口，付款日期和方式必填
func (s *BillService) MarkPaid(ctx context.Context, userID, id uint, p PaymentInput) (*BillView, error) {
	paid := true
	method := p.Method
	return s.Update(ctx, userID, id, BillUpdate{
		IsPaid:        &paid,
		PaymentDate:   p.Date,
		PaymentMethod: &method,
		PaymentSource: p.Source,
	})
}

// MarkUnpaid 无条件回到未付状态并清空付款信息
func (s *BillService) MarkUnpaid(ctx context.Context, userID, id uint) (*BillView, error) {
	unpaid := false
	return s.Update(ctx, userID, id, BillUpdate{IsPaid: &unpaid})
}

// Delete 删除账单，日志中保存删除前的完整记录
func (s *BillService) Delete(ctx context.Context, userID, id uint) error {
	bill, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBill(ctx, id); err != nil {
		return translateNotFound(err, "账单")
	}

	s.activity.Log(ctx, userID, models.ActionDelete, models.EntityBill, idPtr(id),
		fmt.Sprintf("删除账单: %s", bill.Name),
		map[string]interface{}{"snapshot": bill})
	return nil
}

func (s *BillService) owned(ctx context.Context, userID, id uint) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "账单")
	}
	if bill.UserID != userID {
		return nil, fmt.Errorf("%w: 账单", ErrNotFound)
	}
	return bill, nil
}

func (s *BillService) view(bill *models.Bill) *BillView {
	status, overdue := DeriveBillStatus(*bill, s.now().Day())
	return &BillView{Bill: *bill, Status: status, OverdueDays: overdue}
}

func (s *BillService) resolveCategory(ctx context.Context, id *uint) (*uint, error) {
	if id == nil {
		return nil, nil
	}
	if _, err := s.store.GetCategory(ctx, *id); err != nil {
		return nil, translateInvalidCategory(err, *id)
	}
	v := *id
	return &v, nil
}

// syncTransactions 维护账单付款对应的支出流水，失败只记录日志
func (s *BillService) syncTransactions(ctx context.Context, before, after *models.Bill) {
	// 付款日期或金额变化时重写流水
	changed := !sameDay(before.PaymentDate, after.PaymentDate) || !before.Amount.Equal(after.Amount.Decimal)

	if before.IsPaid && before.PaymentDate != nil && (!after.IsPaid || changed) {
		d := *before.PaymentDate
		if err := s.store.DeleteBillTransactions(ctx, before.ID, int(d.Month()), d.Year()); err != nil {
			log.Printf("删除账单流水失败 bill=%d: %v", before.ID, err)
		}
	}

	if after.IsPaid && after.PaymentDate != nil && (!before.IsPaid || changed) {
		d := *after.PaymentDate
		tx := &models.Transaction{
			UserID: after.UserID,
			BillID: idPtr(after.ID),
			Type:   models.TransactionTypeExpense,
			Amount: after.Amount,
			Date:   d,
			Month:  int(d.Month()),
			Year:   d.Year(),
			IsPaid: true,
		}
		if err := s.store.CreateTransaction(ctx, tx); err != nil {
			log.Printf("记录账单流水失败 bill=%d: %v", after.ID, err)
		}
	}
}

func applyPayment(bill *models.Bill, in BillUpdate) error {
	switch {
	case in.IsPaid != nil && *in.IsPaid:
		if in.PaymentDate == nil || in.PaymentDate.IsZero() {
			return invalidInput("付款日期不能为空")
		}
		if in.PaymentMethod == nil || strings.TrimSpace(*in.PaymentMethod) == "" {
			return invalidInput("付款方式不能为空")
		}
		date := *in.PaymentDate
		method := strings.TrimSpace(*in.PaymentMethod)
		bill.IsPaid = true
		bill.PaymentDate = &date
		bill.PaymentMethod = &method
		bill.PaymentSource = in.PaymentSource

	case in.IsPaid != nil:
		if in.hasPaymentFields() {
			return invalidInput("标记未付时不能同时设置付款信息")
		}
		bill.ClearPayment()

	case in.hasPaymentFields():
		if !bill.IsPaid {
			return invalidInput("未付账单不能设置付款信息")
		}
		if in.PaymentDate != nil {
			if in.PaymentDate.IsZero() {
				return invalidInput("付款日期不能为空")
			}
			date := *in.PaymentDate
			bill.PaymentDate = &date
		}
		if in.PaymentMethod != nil {
			method := strings.TrimSpace(*in.PaymentMethod)
			if method == "" {
				return invalidInput("付款方式不能为空")
			}
			bill.PaymentMethod = &method
		}
		if in.PaymentSource != nil {
			bill.PaymentSource = in.PaymentSource
		}
	}
	return nil
}

func validateInstallment(bill *models.Bill) error {
	if !bill.IsInstallment {
		return nil
	}
	if bill.TotalInstallments == nil || *bill.TotalInstallments < 1 {
		return invalidInput("分期总数必须大于 0")
	}
	if bill.CurrentInstallment == nil || *bill.CurrentInstallment < 1 || *bill.CurrentInstallment > *bill.TotalInstallments {
		return invalidInput("当前期数必须在 1-%d 之间", *bill.TotalInstallments)
	}
	return nil
}

type change struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// billChanges 只记录发生变化的字段
func billChanges(before, after *models.Bill) map[string]change {
	changes := make(map[string]change)
	add := func(field string, oldValue, newValue interface{}, equal bool) {
		if !equal {
			changes[field] = change{Old: oldValue, New: newValue}
		}
	}

	add("name", before.Name, after.Name, before.Name == after.Name)
	add("description", before.Description, after.Description, equalPtr(before.Description, after.Description))
	add("amount", before.Amount.StringFixed(2), after.Amount.StringFixed(2), before.Amount.Equal(after.Amount.Decimal))
	add("due_day", before.DueDay, after.DueDay, before.DueDay == after.DueDay)
	add("is_recurring", before.IsRecurring, after.IsRecurring, before.IsRecurring == after.IsRecurring)
	add("category_id", before.CategoryID, after.CategoryID, equalPtr(before.CategoryID, after.CategoryID))
	add("is_installment", before.IsInstallment, after.IsInstallment, before.IsInstallment == after.IsInstallment)
	add("total_installments", before.TotalInstallments, after.TotalInstallments, equalPtr(before.TotalInstallments, after.TotalInstallments))
	add("current_installment", before.CurrentInstallment, after.CurrentInstallment, equalPtr(before.CurrentInstallment, after.CurrentInstallment))
	add("is_paid", before.IsPaid, after.IsPaid, before.IsPaid == after.IsPaid)
	add("payment_date", before.PaymentDate, after.PaymentDate, equalTimePtr(before.PaymentDate, after.PaymentDate))
	add("payment_method", before.PaymentMethod, after.PaymentMethod, equalPtr(before.PaymentMethod, after.PaymentMethod))
	add("payment_source", before.PaymentSource, after.PaymentSource, equalPtr(before.PaymentSource, after.PaymentSource))
	return changes
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
