package service

import (
	"context"
	"time"

	"budget/models"
	"budget/repository"
)

// maxCalendarYears 日历单次查询的最大跨度
const maxCalendarYears = 5

// Dashboard 仪表盘数据，全部来自同一份快照
type Dashboard struct {
	Summary
	Bills      []BillView        `json:"bills"`
	Incomes    []models.Income   `json:"incomes"`
	Categories []models.Category `json:"categories"`
}

// DashboardService 仪表盘与日历
type DashboardService struct {
	store repository.Store
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// GetDashboard 按 ref 所在日计算账单状态与待付数量
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint, ref time.Time) (*Dashboard, error) {
	snap, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Summary:    Summarize(snap, ref.Day()),
		Bills:      newBillViews(snap.Bills, ref.Day()),
		Incomes:    nonNil(snap.Incomes),
		Categories: nonNil(snap.Categories),
	}, nil
}

// CalendarEvents 用户账单和收入在 [start, end] 内的全部发生日期
func (s *DashboardService) CalendarEvents(ctx context.Context, userID uint, start, end time.Time) ([]Occurrence, error) {
	if end.Before(start) {
		return nil, invalidInput("结束日期不能早于开始日期")
	}
	if end.After(start.AddDate(maxCalendarYears, 0, 0)) {
		return nil, invalidInput("查询跨度不能超过 %d 年", maxCalendarYears)
	}
	snap, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ProjectOccurrences(snap.Bills, snap.Incomes, start, end), nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
