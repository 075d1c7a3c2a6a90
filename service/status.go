package service

import "budget/models"

// BillStatus 账单展示状态，每次读取时按当前日期计算，不持久化
type BillStatus string

const (
	BillStatusPaid      BillStatus = "paid"
	BillStatusOverdue   BillStatus = "overdue"
	BillStatusDueToday  BillStatus = "due_today"
	BillStatusDueSoon   BillStatus = "due_soon"
	BillStatusScheduled BillStatus = "scheduled"
)

// dueSoonDays 距到期日不超过该天数视为即将到期
const dueSoonDays = 3

// DeriveBillStatus 根据当月的日期 today 计算账单状态，逾期时同时返回逾期天数
func DeriveBillStatus(bill models.Bill, today int) (BillStatus, int) {
	switch {
	case bill.IsPaid:
		return BillStatusPaid, 0
	case bill.DueDay < today:
		return BillStatusOverdue, today - bill.DueDay
	case bill.DueDay == today:
		return BillStatusDueToday, 0
	case bill.DueDay-today <= dueSoonDays:
		return BillStatusDueSoon, 0
	default:
		return BillStatusScheduled, 0
	}
}

// BillView 带展示状态的账单
type BillView struct {
	models.Bill
	Status      BillStatus `json:"status"`
	OverdueDays int        `json:"overdue_days"`
}

func newBillViews(bills []models.Bill, today int) []BillView {
	views := make([]BillView, 0, len(bills))
	for _, b := range bills {
		status, overdue := DeriveBillStatus(b, today)
		views = append(views, BillView{Bill: b, Status: status, OverdueDays: overdue})
	}
	return views
}
