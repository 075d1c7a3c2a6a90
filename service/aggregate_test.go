package service

import (
	"testing"

	"budget/models"
	"budget/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) models.Money { return models.NewMoney(decimal.RequireFromString(s)) }

func catID(v uint) *uint { return &v }

func TestSummarize_IncomeExpenseBalance(t *testing.T) {
	snap := &repository.Snapshot{
		Bills:   []models.Bill{{ID: 1, Amount: amt("1800.00"), DueDay: 10}},
		Incomes: []models.Income{{ID: 1, Amount: amt("3500.00"), IsRecurring: true, ReceiptDay: intPtr(5)}},
	}

	s := Summarize(snap, 1)
	assert.Equal(t, "3500.00", s.MonthlyIncome.StringFixed(2))
	assert.Equal(t, "1800.00", s.MonthlyExpenses.StringFixed(2))
	assert.Equal(t, "1700.00", s.MonthlyBalance.StringFixed(2))
}

func TestSummarize_EmptySnapshotDegradesToZero(t *testing.T) {
	s := Summarize(&repository.Snapshot{}, 15)
	assert.True(t, s.MonthlyIncome.IsZero())
	assert.True(t, s.MonthlyExpenses.IsZero())
	assert.True(t, s.MonthlyBalance.IsZero())
	assert.Equal(t, 0, s.UpcomingBills)
	assert.NotNil(t, s.CategoryBreakdown)
	assert.Empty(t, s.CategoryBreakdown)
}

func TestMonthlyIncome_ExcludesOneOff(t *testing.T) {
	incomes := []models.Income{
		{Amount: amt("1000"), IsRecurring: true},
		{Amount: amt("250.50"), IsRecurring: false},
		{Amount: amt("0.25"), IsRecurring: true},
	}
	assert.Equal(t, "1000.25", MonthlyIncome(incomes).StringFixed(2))
}

func TestMonthlyBalance_CanBeNegative(t *testing.T) {
	snap := &repository.Snapshot{
		Bills:   []models.Bill{{Amount: amt("900"), IsPaid: true}, {Amount: amt("300")}},
		Incomes: []models.Income{{Amount: amt("1000"), IsRecurring: true}},
	}
	s := Summarize(snap, 1)
	assert.Equal(t, "1200.00", s.MonthlyExpenses.StringFixed(2))
	assert.Equal(t, "-200.00", s.MonthlyBalance.StringFixed(2))
}

func TestCountUpcomingBills(t *testing.T) {
	bills := []models.Bill{
		{DueDay: 15},               // 3 天后
		{DueDay: 25},               // 13 天后
		{DueDay: 12},               // 今天
		{DueDay: 19},               // 第 7 天
		{DueDay: 20},               // 第 8 天
		{DueDay: 11},               // 已逾期
		{DueDay: 14, IsPaid: true}, // 已付也计入
	}
	assert.Equal(t, 4, CountUpcomingBills(bills, 12))
}

func TestCategoryBreakdown(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Name: "住房", Color: "#14b8a6"},
		{ID: 2, Name: "交通"},
		{ID: 3, Name: "空类别"},
	}
	bills := []models.Bill{
		{CategoryID: catID(1), Amount: amt("1800.00")},
		{CategoryID: catID(2), Amount: amt("150.00")},
		{CategoryID: catID(2), Amount: amt("50.00")},
		{Amount: amt("1000.00")}, // 未分类
	}
	expenses := MonthlyExpenses(bills)

	shares := CategoryBreakdown(categories, bills, expenses)
	require.Len(t, shares, 2)
	assert.Equal(t, "住房", shares[0].Name)
	assert.Equal(t, "#14b8a6", shares[0].Color)
	assert.Equal(t, 60.0, shares[0].Percentage)
	assert.Equal(t, "200.00", shares[1].Total.StringFixed(2))
	assert.Equal(t, 6.7, shares[1].Percentage)

	sum := 0.0
	for _, s := range shares {
		sum += s.Percentage
	}
	assert.LessOrEqual(t, sum, 100.0)
}

func TestCategoryBreakdown_ZeroExpenses(t *testing.T) {
	categories := []models.Category{{ID: 1, Name: "住房"}}
	bills := []models.Bill{{CategoryID: catID(1), Amount: amt("0")}}
	assert.Empty(t, CategoryBreakdown(categories, bills, decimal.Zero))

	// 合计为正但总支出传入 0 时百分比为 0
	bills = []models.Bill{{CategoryID: catID(1), Amount: amt("10")}}
	shares := CategoryBreakdown(categories, bills, decimal.Zero)
	require.Len(t, shares, 1)
	assert.Equal(t, 0.0, shares[0].Percentage)
}

func TestDeriveBillStatus(t *testing.T) {
	cases := []struct {
		name    string
		bill    models.Bill
		today   int
		status  BillStatus
		overdue int
	}{
		{"已付", models.Bill{DueDay: 1, IsPaid: true}, 20, BillStatusPaid, 0},
		{"逾期", models.Bill{DueDay: 5}, 12, BillStatusOverdue, 7},
		{"今天到期", models.Bill{DueDay: 12}, 12, BillStatusDueToday, 0},
		{"即将到期", models.Bill{DueDay: 15}, 12, BillStatusDueSoon, 0},
		{"第4天", models.Bill{DueDay: 16}, 12, BillStatusScheduled, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, overdue := DeriveBillStatus(tc.bill, tc.today)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.overdue, overdue)
		})
	}
}

func TestParseAmount(t *testing.T) {
	for _, ok := range []string{"0", "1800", "1800.5", "1800.00", " 12.34 "} {
		_, err := ParseAmount(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "-1", "12.345", "abc", "1,5", "1e3", ".5"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
	d, err := ParseAmount("1800.5")
	require.NoError(t, err)
	assert.Equal(t, "1800.50", d.StringFixed(2))
}
