package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"budget/models"
	"budget/repository"
)

// GoalInput 创建目标参数
type GoalInput struct {
	CategoryID    *uint
	Name          string
	Description   string
	Type          string
	TargetAmount  string
	CurrentAmount *string
	Period        string
	TargetDate    *time.Time
	IsActive      *bool // 未指定时为 true
	Color         string
	Icon          string
}

// GoalUpdate 目标部分更新
type GoalUpdate struct {
	CategoryID    *uint
	Name          *string
	Description   *string
	Type          *string
	TargetAmount  *string
	CurrentAmount *string
	Period        *string
	TargetDate    *time.Time
	IsActive      *bool
	Color         *string
	Icon          *string
}

// GoalProgress 目标及完成进度
type GoalProgress struct {
	models.Goal
	Progress float64 `json:"progress"` // 百分比，保留一位小数
}

func newGoalProgress(g models.Goal) GoalProgress {
	p := 0.0
	if g.TargetAmount.IsPositive() {
		p = g.CurrentAmount.Div(g.TargetAmount.Decimal).Mul(hundred).Round(1).InexactFloat64()
	}
	return GoalProgress{Goal: g, Progress: p}
}

// GoalService 目标管理
type GoalService struct {
	store    repository.Store
	activity *ActivityLogger
}

// NewGoalService 创建目标服务
func NewGoalService(store repository.Store, activity *ActivityLogger) *GoalService {
	return &GoalService{store: store, activity: activity}
}

// List 用户全部目标
func (s *GoalService) List(ctx context.Context, userID uint) ([]GoalProgress, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalProgress(g))
	}
	return out, nil
}

// Create 创建目标
func (s *GoalService) Create(ctx context.Context, userID uint, in GoalInput) (*GoalProgress, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("目标名称不能为空")
	}
	if !models.IsValidGoalType(in.Type) {
		return nil, invalidInput("目标类型错误: %s", in.Type)
	}
	if !models.IsValidGoalPeriod(in.Period) {
		return nil, invalidInput("目标周期错误: %s", in.Period)
	}
	target, err := ParseAmount(in.TargetAmount)
	if err != nil {
		return nil, err
	}
	var current models.Money
	if in.CurrentAmount != nil {
		if current, err = ParseAmount(*in.CurrentAmount); err != nil {
			return nil, err
		}
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	goal := &models.Goal{
		UserID:        userID,
		CategoryID:    in.CategoryID,
		Name:          name,
		Description:   in.Description,
		Type:          in.Type,
		TargetAmount:  target,
		CurrentAmount: current,
		Period:        in.Period,
		TargetDate:    in.TargetDate,
		IsActive:      true,
		Color:         in.Color,
		Icon:          in.Icon,
	}
	if in.IsActive != nil {
		goal.IsActive = *in.IsActive
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, userID, models.ActionCreate, models.EntityGoal, idPtr(goal.ID),
		fmt.Sprintf("创建目标: %s", goal.Name),
		map[string]interface{}{"type": goal.Type, "target_amount": goal.TargetAmount.StringFixed(2)})
	p := newGoalProgress(*goal)
	return &p, nil
}

// Update 更新目标
func (s *GoalService) Update(ctx context.Context, userID, id uint, in GoalUpdate) (*GoalProgress, error) {
	goal, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	changes := make(map[string]change)

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalidInput("目标名称不能为空")
		}
		if name != goal.Name {
			changes["name"] = change{Old: goal.Name, New: name}
			goal.Name = name
		}
	}
	if in.Description != nil && *in.Description != goal.Description {
		changes["description"] = change{Old: goal.Description, New: *in.Description}
		goal.Description = *in.Description
	}
	if in.Type != nil && *in.Type != goal.Type {
		if !models.IsValidGoalType(*in.Type) {
			return nil, invalidInput("目标类型错误: %s", *in.Type)
		}
		changes["type"] = change{Old: goal.Type, New: *in.Type}
		goal.Type = *in.Type
	}
	if in.Period != nil && *in.Period != goal.Period {
		if !models.IsValidGoalPeriod(*in.Period) {
			return nil, invalidInput("目标周期错误: %s", *in.Period)
		}
		changes["period"] = change{Old: goal.Period, New: *in.Period}
		goal.Period = *in.Period
	}
	if in.TargetAmount != nil {
		target, err := ParseAmount(*in.TargetAmount)
		if err != nil {
			return nil, err
		}
		if !target.Equal(goal.TargetAmount.Decimal) {
			changes["target_amount"] = change{Old: goal.TargetAmount.StringFixed(2), New: target.StringFixed(2)}
			goal.TargetAmount = target
		}
	}
	if in.CurrentAmount != nil {
		current, err := ParseAmount(*in.CurrentAmount)
		if err != nil {
			return nil, err
		}
		if !current.Equal(goal.CurrentAmount.Decimal) {
			changes["current_amount"] = change{Old: goal.CurrentAmount.StringFixed(2), New: current.StringFixed(2)}
			goal.CurrentAmount = current
		}
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			goal.CategoryID = nil
		} else {
			if err := s.checkCategory(ctx, in.CategoryID); err != nil {
				return nil, err
			}
			v := *in.CategoryID
			goal.CategoryID = &v
		}
	}
	if in.TargetDate != nil {
		goal.TargetDate = in.TargetDate
	}
	if in.IsActive != nil && *in.IsActive != goal.IsActive {
		changes["is_active"] = change{Old: goal.IsActive, New: *in.IsActive}
		goal.IsActive = *in.IsActive
	}
	if in.Color != nil {
		goal.Color = *in.Color
	}
	if in.Icon != nil {
		goal.Icon = *in.Icon
	}

	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, translateNotFound(err, "目标")
	}

	s.activity.Log(ctx, userID, models.ActionUpdate, models.EntityGoal, idPtr(goal.ID),
		fmt.Sprintf("更新目标: %s", goal.Name), map[string]interface{}{"changes": changes})
	p := newGoalProgress(*goal)
	return &p, nil
}

// Contribute 在当前进度上累加金额
func (s *GoalService) Contribute(ctx context.Context, userID, id uint, amount string) (*GoalProgress, error) {
	delta, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, invalidInput("金额必须大于 0")
	}
	goal, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	before := goal.CurrentAmount
	goal.CurrentAmount = models.NewMoney(goal.CurrentAmount.Add(delta.Decimal))
	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, translateNotFound(err, "目标")
	}

	s.activity.Log(ctx, userID, models.ActionUpdate, models.EntityGoal, idPtr(goal.ID),
		fmt.Sprintf("目标存入 %s: %s", delta.StringFixed(2), goal.Name),
		map[string]interface{}{"changes": map[string]change{
			"current_amount": {Old: before.StringFixed(2), New: goal.CurrentAmount.StringFixed(2)},
		}})
	p := newGoalProgress(*goal)
	return &p, nil
}

// Delete 删除目标
func (s *GoalService) Delete(ctx context.Context, userID, id uint) error {
	goal, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return translateNotFound(err, "目标")
	}

	s.activity.Log(ctx, userID, models.ActionDelete, models.EntityGoal, idPtr(id),
		fmt.Sprintf("删除目标: %s", goal.Name), map[string]interface{}{"snapshot": goal})
	return nil
}

func (s *GoalService) owned(ctx context.Context, userID, id uint) (*models.Goal, error) {
	goal, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "目标")
	}
	if goal.UserID != userID {
		return nil, fmt.Errorf("%w: 目标", ErrNotFound)
	}
	return goal, nil
}

func (s *GoalService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.store.GetCategory(ctx, *id); err != nil {
		return translateInvalidCategory(err, *id)
	}
	return nil
}
