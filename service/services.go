package service

import (
	"time"

	"budget/config"
	"budget/repository"
)

// Services 一个存储上的全部业务服务
type Services struct {
	Activity      *ActivityLogger
	Users         *UserService
	Bills         *BillService
	Incomes       *IncomeService
	Categories    *CategoryService
	Goals         *GoalService
	Notifications *NotificationService
	Transactions  *TransactionService
	Dashboard     *DashboardService
	Reminders     *ReminderService
	Advice        *AdviceService
}

// Options 可选依赖，零值表示不启用
type Options struct {
	Publisher EventPublisher
	Sender    ReminderSender
	Advisor   *Advisor
	Reminder  config.ReminderConfig
	Now       func() time.Time
}

// NewServices 组装服务
func NewServices(store repository.Store, opts Options) *Services {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	activity := NewActivityLogger(store, opts.Publisher, now)
	notifications := NewNotificationService(store)
	dashboard := NewDashboardService(store)

	return &Services{
		Activity:      activity,
		Users:         NewUserService(store),
		Bills:         NewBillService(store, activity, now),
		Incomes:       NewIncomeService(store, activity),
		Categories:    NewCategoryService(store, activity),
		Goals:         NewGoalService(store, activity),
		Notifications: notifications,
		Transactions:  NewTransactionService(store),
		Dashboard:     dashboard,
		Reminders:     NewReminderService(store, notifications, opts.Sender, opts.Reminder),
		Advice:        NewAdviceService(dashboard, opts.Advisor),
	}
}
