package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"budget/config"
	"budget/models"
	"budget/repository"

	"golang.org/x/sync/errgroup"
)

// ReminderResult 一次提醒的统计
type ReminderResult struct {
	Bills    int `json:"bills"`
	Emailed  int `json:"emailed"`
	Notified int `json:"notified"`
}

// ReminderService 对即将到期的未付账单发送邮件并写入 warning 通知
type ReminderService struct {
	store         repository.Store
	notifications *NotificationService
	sender        ReminderSender
	cfg           config.ReminderConfig
}

// NewReminderService 创建提醒服务
func NewReminderService(store repository.Store, notifications *NotificationService, sender ReminderSender, cfg config.ReminderConfig) *ReminderService {
	if cfg.DaysAhead < 0 {
		cfg.DaysAhead = 0
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &ReminderService{store: store, notifications: notifications, sender: sender, cfg: cfg}
}

// SendDueReminders 处理 ref 当月 0 <= dueDay-today <= DaysAhead 的未付账单
func (s *ReminderService) SendDueReminders(ctx context.Context, userID uint, ref time.Time) (*ReminderResult, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, translateNotFound(err, "用户")
	}
	bills, err := s.store.ListBills(ctx, userID)
	if err != nil {
		return nil, err
	}

	due := dueBills(bills, ref, s.cfg.DaysAhead)
	result := &ReminderResult{Bills: len(due)}
	var emailed, notified int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, d := range due {
		d := d
		g.Go(func() error {
			if s.sender != nil && s.sender.SendReminder(user.Email, d.bill.Name, d.bill.Amount.Decimal, d.date) {
				atomic.AddInt64(&emailed, 1)
			}
			title := fmt.Sprintf("账单即将到期：%s", d.bill.Name)
			message := fmt.Sprintf("%s 到期，金额 %s", d.date.Format("2006-01-02"), d.bill.Amount.StringFixed(2))
			if _, err := s.notifications.Create(ctx, userID, models.NotificationWarning, title, message, idPtr(d.bill.ID)); err != nil {
				return fmt.Errorf("创建提醒通知失败 bill=%d: %w", d.bill.ID, err)
			}
			atomic.AddInt64(&notified, 1)
			return nil
		})
	}
	err = g.Wait()

	result.Emailed = int(emailed)
	result.Notified = int(notified)
	return result, err
}

type dueBill struct {
	bill models.Bill
	date time.Time
}

// dueBills 当月不存在的到期日（如 2 月 30 日）不提醒
func dueBills(bills []models.Bill, ref time.Time, daysAhead int) []dueBill {
	today := ref.Day()
	last := daysInMonth(ref.Year(), ref.Month())
	var out []dueBill
	for _, b := range bills {
		if b.IsPaid || b.DueDay > last {
			continue
		}
		diff := b.DueDay - today
		if diff < 0 || diff > daysAhead {
			continue
		}
		out = append(out, dueBill{
			bill: b,
			date: time.Date(ref.Year(), ref.Month(), b.DueDay, 0, 0, 0, 0, ref.Location()),
		})
	}
	return out
}
