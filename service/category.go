package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget/models"
	"budget/repository"
)

// CategoryInput 创建类别参数
type CategoryInput struct {
	Name  string
	Color string
	Icon  string
	Sort  int
}

// CategoryUpdate 类别部分更新
type CategoryUpdate struct {
	Name  *string
	Color *string
	Icon  *string
	Sort  *int
}

// CategoryService 类别管理，类别为全部用户共享
type CategoryService struct {
	store    repository.Store
	activity *ActivityLogger
}

// NewCategoryService 创建类别服务
func NewCategoryService(store repository.Store, activity *ActivityLogger) *CategoryService {
	return &CategoryService{store: store, activity: activity}
}

// List 按排序值返回全部类别
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// Create 名称唯一，重复时返回 ErrConflict
func (s *CategoryService) Create(ctx context.Context, userID uint, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("类别名称不能为空")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	cat := &models.Category{
		Name:  name,
		Color: strings.TrimSpace(in.Color),
		Icon:  strings.TrimSpace(in.Icon),
		Sort:  in.Sort,
	}
	if cat.Color == "" {
		cat.Color = models.DefaultCategoryColor
	}
	if cat.Icon == "" {
		cat.Icon = models.DefaultCategoryIcon
	}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, userID, models.ActionCreate, models.EntityCategory, idPtr(cat.ID),
		fmt.Sprintf("创建类别: %s", cat.Name), map[string]interface{}{"color": cat.Color, "icon": cat.Icon})
	return cat, nil
}

// Update 更新类别
func (s *CategoryService) Update(ctx context.Context, userID, id uint, in CategoryUpdate) (*models.Category, error) {
	cat, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "类别")
	}
	changes := make(map[string]change)

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalidInput("类别名称不能为空")
		}
		if name != cat.Name {
			if err := s.ensureNameFree(ctx, name, cat.ID); err != nil {
				return nil, err
			}
			changes["name"] = change{Old: cat.Name, New: name}
			cat.Name = name
		}
	}
	if in.Color != nil && *in.Color != cat.Color {
		changes["color"] = change{Old: cat.Color, New: *in.Color}
		cat.Color = *in.Color
	}
	if in.Icon != nil && *in.Icon != cat.Icon {
		changes["icon"] = change{Old: cat.Icon, New: *in.Icon}
		cat.Icon = *in.Icon
	}
	if in.Sort != nil && *in.Sort != cat.Sort {
		changes["sort"] = change{Old: cat.Sort, New: *in.Sort}
		cat.Sort = *in.Sort
	}

	if err := s.store.UpdateCategory(ctx, cat); err != nil {
		return nil, translateNotFound(err, "类别")
	}

	s.activity.Log(ctx, userID, models.ActionUpdate, models.EntityCategory, idPtr(cat.ID),
		fmt.Sprintf("更新类别: %s", cat.Name), map[string]interface{}{"changes": changes})
	return cat, nil
}

// Delete 仍有账单引用该类别时返回 ErrConflict，不做级联
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) error {
	cat, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return translateNotFound(err, "类别")
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryInUse) {
			return fmt.Errorf("%w: 类别「%s」仍有账单在使用，请先调整这些账单", ErrConflict, cat.Name)
		}
		return translateNotFound(err, "类别")
	}

	s.activity.Log(ctx, userID, models.ActionDelete, models.EntityCategory, idPtr(id),
		fmt.Sprintf("删除类别: %s", cat.Name), map[string]interface{}{"snapshot": cat})
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.store.GetCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: 类别名称已存在", ErrConflict)
	}
	return nil
}
