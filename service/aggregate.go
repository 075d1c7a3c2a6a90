package service

import (
	"budget/models"
	"budget/repository"

	"github.com/shopspring/decimal"
)

// upcomingWindowDays 未来 7 天内（含当天和第 7 天）到期的账单计入待付
const upcomingWindowDays = 7

var hundred = decimal.NewFromInt(100)

// CategoryShare 某类别的账单合计及占总支出的百分比
type CategoryShare struct {
	CategoryID uint         `json:"category_id"`
	Name       string       `json:"name"`
	Color      string       `json:"color"`
	Icon       string       `json:"icon"`
	Total      models.Money `json:"total"`
	Percentage float64      `json:"percentage"`
}

// Summary 仪表盘汇总数据
type Summary struct {
	MonthlyIncome     models.Money    `json:"monthly_income"`
	MonthlyExpenses   models.Money    `json:"monthly_expenses"`
	MonthlyBalance    models.Money    `json:"monthly_balance"`
	UpcomingBills     int             `json:"upcoming_bills"`
	CategoryBreakdown []CategoryShare `json:"category_breakdown"`
}

// Summarize 从同一份快照计算汇总，today 为当月第几天
func Summarize(snap *repository.Snapshot, today int) Summary {
	s := Summary{
		MonthlyIncome:     models.NewMoney(MonthlyIncome(snap.Incomes)),
		MonthlyExpenses:   models.NewMoney(MonthlyExpenses(snap.Bills)),
		UpcomingBills:     CountUpcomingBills(snap.Bills, today),
		CategoryBreakdown: []CategoryShare{},
	}
	s.MonthlyBalance = models.NewMoney(s.MonthlyIncome.Sub(s.MonthlyExpenses.Decimal))
	s.CategoryBreakdown = CategoryBreakdown(snap.Categories, snap.Bills, s.MonthlyExpenses.Decimal)
	return s
}

// MonthlyIncome 仅统计固定收入，一次性收入不计入月度基线
func MonthlyIncome(incomes []models.Income) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range incomes {
		if inc.IsRecurring {
			total = total.Add(inc.Amount.Decimal)
		}
	}
	return total.Round(2)
}

// MonthlyExpenses 全部账单金额之和，不区分是否已付
func MonthlyExpenses(bills []models.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.Amount.Decimal)
	}
	return total.Round(2)
}

// CountUpcomingBills 统计 0 <= dueDay-today <= 7 的账单，已付账单同样计入
func CountUpcomingBills(bills []models.Bill, today int) int {
	n := 0
	for _, b := range bills {
		diff := b.DueDay - today
		if diff >= 0 && diff <= upcomingWindowDays {
			n++
		}
	}
	return n
}

// CategoryBreakdown 按类别汇总账单金额，百分比保留一位小数，合计为零的类别不返回
func CategoryBreakdown(categories []models.Category, bills []models.Bill, expenses decimal.Decimal) []CategoryShare {
	totals := make(map[uint]decimal.Decimal)
	for _, b := range bills {
		if b.CategoryID == nil {
			continue
		}
		totals[*b.CategoryID] = totals[*b.CategoryID].Add(b.Amount.Decimal)
	}

	shares := make([]CategoryShare, 0, len(categories))
	for _, c := range categories {
		total, ok := totals[c.ID]
		if !ok || total.IsZero() {
			continue
		}
		pct := 0.0
		if expenses.IsPositive() {
			pct = total.Div(expenses).Mul(hundred).Round(1).InexactFloat64()
		}
		shares = append(shares, CategoryShare{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
			Icon:       c.Icon,
			Total:      models.NewMoney(total),
			Percentage: pct,
		})
	}
	return shares
}
