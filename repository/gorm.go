package repository

import (
	"context"
	"errors"

	"budget/models"

	"gorm.io/gorm"
)

// GormStore 基于 gorm 的存储实现（MySQL / SQLite）
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// first 查询单条记录，把 gorm 的未找到错误统一为 ErrRecordNotFound
func first[T any](db *gorm.DB, conds ...interface{}) (*T, error) {
	var out T
	if err := db.First(&out, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &out, nil
}

// deleteByID 删除单条记录，未命中时返回 ErrRecordNotFound
func deleteByID(db *gorm.DB, model interface{}, id uint) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.conn(ctx).Create(user).Error
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](s.conn(ctx), id)
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](s.conn(ctx).Where("username = ?", username))
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	err := s.conn(ctx).Order("sort ASC, id ASC").Find(&list).Error
	return list, err
}

func (s *GormStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return first[models.Category](s.conn(ctx), id)
}

func (s *GormStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return first[models.Category](s.conn(ctx).Where("name = ?", name))
}

func (s *GormStore) CreateCategory(ctx context.Context, cat *models.Category) error {
	return s.conn(ctx).Create(cat).Error
}

func (s *GormStore) UpdateCategory(ctx context.Context, cat *models.Category) error {
	return s.conn(ctx).Save(cat).Error
}

func (s *GormStore) DeleteCategory(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Bill{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrCategoryInUse
		}
		// 名称有唯一索引，软删除的行会占住名称，这里物理删除
		return deleteByID(tx.Unscoped(), &models.Category{}, id)
	})
}

func (s *GormStore) CountBillsByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Bill{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (s *GormStore) ListBills(ctx context.Context, userID uint) ([]models.Bill, error) {
	var list []models.Bill
	err := s.conn(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *GormStore) GetBill(ctx context.Context, id uint) (*models.Bill, error) {
	return first[models.Bill](s.conn(ctx), id)
}

func (s *GormStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	return s.conn(ctx).Create(bill).Error
}

func (s *GormStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	return s.conn(ctx).Save(bill).Error
}

func (s *GormStore) DeleteBill(ctx context.Context, id uint) error {
	return deleteByID(s.conn(ctx), &models.Bill{}, id)
}

func (s *GormStore) ListIncomes(ctx context.Context, userID uint) ([]models.Income, error) {
	var list []models.Income
	err := s.conn(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *GormStore) GetIncome(ctx context.Context, id uint) (*models.Income, error) {
	return first[models.Income](s.conn(ctx), id)
}

func (s *GormStore) CreateIncome(ctx context.Context, income *models.Income) error {
	return s.conn(ctx).Create(income).Error
}

func (s *GormStore) UpdateIncome(ctx context.Context, income *models.Income) error {
	return s.conn(ctx).Save(income).Error
}

func (s *GormStore) DeleteIncome(ctx context.Context, id uint) error {
	return deleteByID(s.conn(ctx), &models.Income{}, id)
}

func (s *GormStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.conn(ctx).Create(tx).Error
}

func (s *GormStore) ListTransactions(ctx context.Context, userID uint, month, year int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := s.conn(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("date ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (s *GormStore) DeleteBillTransactions(ctx context.Context, billID uint, month, year int) error {
	return s.conn(ctx).
		Where("bill_id = ? AND month = ? AND year = ?", billID, month, year).
		Delete(&models.Transaction{}).Error
}

func (s *GormStore) DeleteIncomeTransactions(ctx context.Context, incomeID uint) error {
	return s.conn(ctx).Where("income_id = ?", incomeID).Delete(&models.Transaction{}).Error
}

func (s *GormStore) ListGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	var list []models.Goal
	err := s.conn(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *GormStore) GetGoal(ctx context.Context, id uint) (*models.Goal, error) {
	return first[models.Goal](s.conn(ctx), id)
}

func (s *GormStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return s.conn(ctx).Create(goal).Error
}

func (s *GormStore) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	return s.conn(ctx).Save(goal).Error
}

func (s *GormStore) DeleteGoal(ctx context.Context, id uint) error {
	return deleteByID(s.conn(ctx), &models.Goal{}, id)
}

func (s *GormStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.conn(ctx).Create(n).Error
}

func (s *GormStore) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	return first[models.Notification](s.conn(ctx), id)
}

func (s *GormStore) ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	var list []models.Notification
	err := s.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (s *GormStore) UpdateNotification(ctx context.Context, n *models.Notification) error {
	return s.conn(ctx).Save(n).Error
}

func (s *GormStore) MarkAllNotificationsRead(ctx context.Context, userID uint) (int64, error) {
	result := s.conn(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (s *GormStore) AppendActivityLog(ctx context.Context, entry *models.ActivityLog) error {
	return s.conn(ctx).Create(entry).Error
}

func (s *GormStore) ListActivityLogs(ctx context.Context, userID uint, limit int) ([]models.ActivityLog, error) {
	var list []models.ActivityLog
	q := s.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

func (s *GormStore) Snapshot(ctx context.Context, userID uint) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&snap.Bills).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&snap.Incomes).Error; err != nil {
			return err
		}
		return tx.Order("sort ASC, id ASC").Find(&snap.Categories).Error
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
