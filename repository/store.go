// Package repository 领域数据存储：用户、类别、账单、收入、流水、目标、通知、操作日志
//
// Store 是唯一的共享可变资源，所有读写都经过它。单条记录的写入对读者整体可见，
// 不存在跨记录事务（例如账单更新与对应的操作日志是两次独立写入）。
// 同一记录的并发更新为后写覆盖，没有版本号。
package repository

import (
	"context"
	"errors"

	"budget/models"
)

var (
	// ErrRecordNotFound 记录不存在
	ErrRecordNotFound = errors.New("record not found")
	// ErrCategoryInUse 类别仍被账单引用
	ErrCategoryInUse = errors.New("category is referenced by bills")
)

// Snapshot 某个用户在同一时刻的账单、收入和全部类别
type Snapshot struct {
	Bills      []models.Bill
	Incomes    []models.Income
	Categories []models.Category
}

// Store 数据存储接口，按 userID 显式过滤用户数据
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, cat *models.Category) error
	UpdateCategory(ctx context.Context, cat *models.Category) error
	// DeleteCategory 在同一次操作内检查引用，仍被账单引用时返回 ErrCategoryInUse
	DeleteCategory(ctx context.Context, id uint) error
	CountBillsByCategory(ctx context.Context, categoryID uint) (int64, error)

	ListBills(ctx context.Context, userID uint) ([]models.Bill, error)
	GetBill(ctx context.Context, id uint) (*models.Bill, error)
	CreateBill(ctx context.Context, bill *models.Bill) error
	UpdateBill(ctx context.Context, bill *models.Bill) error
	DeleteBill(ctx context.Context, id uint) error

	ListIncomes(ctx context.Context, userID uint) ([]models.Income, error)
	GetIncome(ctx context.Context, id uint) (*models.Income, error)
	CreateIncome(ctx context.Context, income *models.Income) error
	UpdateIncome(ctx context.Context, income *models.Income) error
	DeleteIncome(ctx context.Context, id uint) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID uint, month, year int) ([]models.Transaction, error)
	DeleteBillTransactions(ctx context.Context, billID uint, month, year int) error
	DeleteIncomeTransactions(ctx context.Context, incomeID uint) error

	ListGoals(ctx context.Context, userID uint) ([]models.Goal, error)
	GetGoal(ctx context.Context, id uint) (*models.Goal, error)
	CreateGoal(ctx context.Context, goal *models.Goal) error
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, id uint) error

	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id uint) (*models.Notification, error)
	// ListNotifications 按创建时间倒序
	ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error)
	UpdateNotification(ctx context.Context, n *models.Notification) error
	MarkAllNotificationsRead(ctx context.Context, userID uint) (int64, error)

	AppendActivityLog(ctx context.Context, entry *models.ActivityLog) error
	// ListActivityLogs 按创建时间倒序，limit <= 0 表示不限制
	ListActivityLogs(ctx context.Context, userID uint, limit int) ([]models.ActivityLog, error)

	// Snapshot 一次性读取仪表盘所需数据，不会混入读取过程中的写入
	Snapshot(ctx context.Context, userID uint) (*Snapshot, error)
}
