package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"budget/models"
)

// collection 按自增 ID 存放记录，遍历时按 ID 升序（即插入顺序）
type collection[T any] struct {
	rows   map[uint]T
	nextID uint
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{rows: make(map[uint]T)}
}

func (c *collection[T]) nextKey() uint {
	c.nextID++
	return c.nextID
}

func (c *collection[T]) get(id uint) (*T, error) {
	row, ok := c.rows[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &row, nil
}

func (c *collection[T]) remove(id uint) error {
	if _, ok := c.rows[id]; !ok {
		return ErrRecordNotFound
	}
	delete(c.rows, id)
	return nil
}

func (c *collection[T]) filter(keep func(T) bool) []T {
	ids := make([]uint, 0, len(c.rows))
	for id, row := range c.rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.rows[id])
	}
	return out
}

// MemoryStore 内存存储，进程内单锁串行化所有写入
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	users         *collection[models.User]
	categories    *collection[models.Category]
	bills         *collection[models.Bill]
	incomes       *collection[models.Income]
	transactions  *collection[models.Transaction]
	goals         *collection[models.Goal]
	notifications *collection[models.Notification]
	activityLogs  *collection[models.ActivityLog]
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:           time.Now,
		users:         newCollection[models.User](),
		categories:    newCollection[models.Category](),
		bills:         newCollection[models.Bill](),
		incomes:       newCollection[models.Income](),
		transactions:  newCollection[models.Transaction](),
		goals:         newCollection[models.Goal](),
		notifications: newCollection[models.Notification](),
		activityLogs:  newCollection[models.ActivityLog](),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user.ID = s.users.nextKey()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users.rows[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.get(id)
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users.rows {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedCategories(), nil
}

func (s *MemoryStore) sortedCategories() []models.Category {
	list := s.categories.filter(nil)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Sort < list[j].Sort })
	return list
}

func (s *MemoryStore) GetCategory(_ context.Context, id uint) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.get(id)
}

func (s *MemoryStore) GetCategoryByName(_ context.Context, name string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories.rows {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *MemoryStore) CreateCategory(_ context.Context, cat *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cat.ID = s.categories.nextKey()
	cat.CreatedAt, cat.UpdatedAt = now, now
	s.categories.rows[cat.ID] = *cat
	return nil
}

func (s *MemoryStore) UpdateCategory(_ context.Context, cat *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories.rows[cat.ID]; !ok {
		return ErrRecordNotFound
	}
	cat.UpdatedAt = s.now()
	s.categories.rows[cat.ID] = *cat
	return nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countBillsByCategory(id) > 0 {
		return ErrCategoryInUse
	}
	return s.categories.remove(id)
}

func (s *MemoryStore) CountBillsByCategory(_ context.Context, categoryID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countBillsByCategory(categoryID), nil
}

func (s *MemoryStore) countBillsByCategory(categoryID uint) int64 {
	var n int64
	for _, b := range s.bills.rows {
		if b.CategoryID != nil && *b.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (s *MemoryStore) ListBills(_ context.Context, userID uint) ([]models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bills.filter(func(b models.Bill) bool { return b.UserID == userID }), nil
}

func (s *MemoryStore) GetBill(_ context.Context, id uint) (*models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bills.get(id)
}

func (s *MemoryStore) CreateBill(_ context.Context, bill *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	bill.ID = s.bills.nextKey()
	bill.CreatedAt, bill.UpdatedAt = now, now
	s.bills.rows[bill.ID] = *bill
	return nil
}

func (s *MemoryStore) UpdateBill(_ context.Context, bill *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bills.rows[bill.ID]; !ok {
		return ErrRecordNotFound
	}
	bill.UpdatedAt = s.now()
	s.bills.rows[bill.ID] = *bill
	return nil
}

func (s *MemoryStore) DeleteBill(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bills.remove(id)
}

func (s *MemoryStore) ListIncomes(_ context.Context, userID uint) ([]models.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incomes.filter(func(i models.Income) bool { return i.UserID == userID }), nil
}

func (s *MemoryStore) GetIncome(_ context.Context, id uint) (*models.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incomes.get(id)
}

func (s *MemoryStore) CreateIncome(_ context.Context, income *models.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	income.ID = s.incomes.nextKey()
	income.CreatedAt, income.UpdatedAt = now, now
	s.incomes.rows[income.ID] = *income
	return nil
}

func (s *MemoryStore) UpdateIncome(_ context.Context, income *models.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.incomes.rows[income.ID]; !ok {
		return ErrRecordNotFound
	}
	income.UpdatedAt = s.now()
	s.incomes.rows[income.ID] = *income
	return nil
}

func (s *MemoryStore) DeleteIncome(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incomes.remove(id)
}

func (s *MemoryStore) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.transactions.nextKey()
	tx.CreatedAt = s.now()
	s.transactions.rows[tx.ID] = *tx
	return nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, userID uint, month, year int) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.transactions.filter(func(t models.Transaction) bool {
		return t.UserID == userID && t.Month == month && t.Year == year
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

func (s *MemoryStore) DeleteBillTransactions(_ context.Context, billID uint, month, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.transactions.rows {
		if t.BillID != nil && *t.BillID == billID && t.Month == month && t.Year == year {
			delete(s.transactions.rows, id)
		}
	}
	return nil
}

func (s *MemoryStore) DeleteIncomeTransactions(_ context.Context, incomeID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.transactions.rows {
		if t.IncomeID != nil && *t.IncomeID == incomeID {
			delete(s.transactions.rows, id)
		}
	}
	return nil
}

func (s *MemoryStore) ListGoals(_ context.Context, userID uint) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals.filter(func(g models.Goal) bool { return g.UserID == userID }), nil
}

func (s *MemoryStore) GetGoal(_ context.Context, id uint) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals.get(id)
}

func (s *MemoryStore) CreateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	goal.ID = s.goals.nextKey()
	goal.CreatedAt, goal.UpdatedAt = now, now
	s.goals.rows[goal.ID] = *goal
	return nil
}

func (s *MemoryStore) UpdateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals.rows[goal.ID]; !ok {
		return ErrRecordNotFound
	}
	goal.UpdatedAt = s.now()
	s.goals.rows[goal.ID] = *goal
	return nil
}

func (s *MemoryStore) DeleteGoal(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals.remove(id)
}

func (s *MemoryStore) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.notifications.nextKey()
	n.CreatedAt = s.now()
	s.notifications.rows[n.ID] = *n
	return nil
}

func (s *MemoryStore) GetNotification(_ context.Context, id uint) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications.get(id)
}

func (s *MemoryStore) ListNotifications(_ context.Context, userID uint) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.notifications.filter(func(n models.Notification) bool { return n.UserID == userID })
	newestFirst(list, func(n models.Notification) (time.Time, uint) { return n.CreatedAt, n.ID })
	return list, nil
}

func (s *MemoryStore) UpdateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications.rows[n.ID]; !ok {
		return ErrRecordNotFound
	}
	s.notifications.rows[n.ID] = *n
	return nil
}

func (s *MemoryStore) MarkAllNotificationsRead(_ context.Context, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, row := range s.notifications.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			s.notifications.rows[id] = row
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) AppendActivityLog(_ context.Context, entry *models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.activityLogs.nextKey()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	s.activityLogs.rows[entry.ID] = *entry
	return nil
}

func (s *MemoryStore) ListActivityLogs(_ context.Context, userID uint, limit int) ([]models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.activityLogs.filter(func(l models.ActivityLog) bool { return l.UserID == userID })
	newestFirst(list, func(l models.ActivityLog) (time.Time, uint) { return l.CreatedAt, l.ID })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *MemoryStore) Snapshot(_ context.Context, userID uint) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Snapshot{
		Bills:      s.bills.filter(func(b models.Bill) bool { return b.UserID == userID }),
		Incomes:    s.incomes.filter(func(i models.Income) bool { return i.UserID == userID }),
		Categories: s.sortedCategories(),
	}, nil
}

// newestFirst 按创建时间倒序，时间相同按 ID 倒序
func newestFirst[T any](list []T, key func(T) (time.Time, uint)) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, idi := key(list[i])
		tj, idj := key(list[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}
