package service

import (
	"testing"
	"time"

	"budget/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestProjectOccurrences_Day31SkipsFebruary(t *testing.T) {
	bill := models.Bill{ID: 1, Name: "信用卡", DueDay: 31, Amount: models.NewMoney(decimal.NewFromInt(100))}

	occ := ProjectOccurrences([]models.Bill{bill}, nil, day(2023, 2, 1), day(2023, 2, 28))
	assert.Empty(t, occ)

	// 闰年二月同样没有 31 号
	occ = ProjectOccurrences([]models.Bill{bill}, nil, day(2024, 2, 1), day(2024, 2, 29))
	assert.Empty(t, occ)

	occ = ProjectOccurrences([]models.Bill{bill}, nil, day(2023, 1, 1), day(2023, 3, 31))
	require.Len(t, occ, 2)
	assert.Equal(t, day(2023, 1, 31), occ[0].Date)
	assert.Equal(t, day(2023, 3, 31), occ[1].Date)
}

func TestProjectOccurrences_LeapDay(t *testing.T) {
	bill := models.Bill{ID: 1, Name: "会员", DueDay: 29, Amount: models.NewMoney(decimal.NewFromInt(10))}

	assert.Empty(t, ProjectOccurrences([]models.Bill{bill}, nil, day(2023, 2, 1), day(2023, 2, 28)))

	occ := ProjectOccurrences([]models.Bill{bill}, nil, day(2024, 2, 1), day(2024, 2, 29))
	require.Len(t, occ, 1)
	assert.Equal(t, day(2024, 2, 29), occ[0].Date)
}

func TestProjectOccurrences_WeekAcrossMonthAndYearBoundary(t *testing.T) {
	bills := []models.Bill{
		{ID: 1, Name: "网费", DueDay: 30, Amount: models.NewMoney(decimal.NewFromInt(100))},
		{ID: 2, Name: "房租", DueDay: 2, Amount: models.NewMoney(decimal.NewFromInt(1800))},
		{ID: 3, Name: "保险", DueDay: 15, Amount: models.NewMoney(decimal.NewFromInt(50))},
	}

	occ := ProjectOccurrences(bills, nil, day(2023, 12, 28), day(2024, 1, 3))
	require.Len(t, occ, 2)
	assert.Equal(t, uint(1), occ[0].EntityID)
	assert.Equal(t, day(2023, 12, 30), occ[0].Date)
	assert.Equal(t, uint(2), occ[1].EntityID)
	assert.Equal(t, day(2024, 1, 2), occ[1].Date)
}

func TestProjectOccurrences_MultiMonthRangeAndIncomes(t *testing.T) {
	bills := []models.Bill{{ID: 1, Name: "房租", DueDay: 10, Amount: models.NewMoney(decimal.NewFromInt(1800)), IsPaid: true}}
	oneOffDate := day(2024, 2, 10)
	incomes := []models.Income{
		{ID: 5, Source: "工资", IsRecurring: true, ReceiptDay: intPtr(10), Amount: models.NewMoney(decimal.NewFromInt(3500))},
		{ID: 6, Source: "额外", IsRecurring: false, Date: &oneOffDate, Amount: models.NewMoney(decimal.NewFromInt(200))},
		{ID: 7, Source: "缺少日期", IsRecurring: true, Amount: models.NewMoney(decimal.NewFromInt(1))},
	}

	occ := ProjectOccurrences(bills, incomes, day(2024, 1, 1), day(2024, 3, 31))
	require.Len(t, occ, 7)

	// 同日按输入顺序：账单、固定收入、一次性收入
	feb := occ[2:5]
	assert.Equal(t, OccurrenceBill, feb[0].Kind)
	assert.Equal(t, uint(5), feb[1].EntityID)
	assert.Equal(t, uint(6), feb[2].EntityID)
	for _, o := range feb {
		assert.Equal(t, day(2024, 2, 10), o.Date)
	}
	assert.True(t, occ[0].IsPaid)
	assert.Equal(t, day(2024, 3, 10), occ[6].Date)
}

func TestProjectOccurrences_RangeBoundsInclusive(t *testing.T) {
	bills := []models.Bill{
		{ID: 1, DueDay: 5},
		{ID: 2, DueDay: 4},
		{ID: 3, DueDay: 12},
		{ID: 4, DueDay: 13},
	}
	start := time.Date(2024, 6, 5, 18, 30, 0, 0, time.UTC)
	end := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)

	occ := ProjectOccurrences(bills, nil, start, end)
	require.Len(t, occ, 2)
	assert.Equal(t, uint(1), occ[0].EntityID)
	assert.Equal(t, uint(3), occ[1].EntityID)
}

func TestProjectOccurrences_EmptyAndReversedRange(t *testing.T) {
	assert.Empty(t, ProjectOccurrences(nil, nil, day(2024, 1, 1), day(2024, 1, 31)))
	bills := []models.Bill{{ID: 1, DueDay: 5}}
	assert.Empty(t, ProjectOccurrences(bills, nil, day(2024, 2, 1), day(2024, 1, 1)))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, daysInMonth(2024, time.January))
	assert.Equal(t, 29, daysInMonth(2024, time.February))
	assert.Equal(t, 28, daysInMonth(2100, time.February))
	assert.Equal(t, 29, daysInMonth(2000, time.February))
	assert.Equal(t, 30, daysInMonth(2024, time.April))
	assert.Equal(t, 31, daysInMonth(2024, time.December))
}
