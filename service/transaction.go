package service

import (
	"context"
	"time"

	"budget/models"
	"budget/repository"
)

// TransactionService 流水查询
type TransactionService struct {
	store repository.Store
}

// NewTransactionService 创建流水服务
func NewTransactionService(store repository.Store) *TransactionService {
	return &TransactionService{store: store}
}

// List 某月流水，按日期升序
func (s *TransactionService) List(ctx context.Context, userID uint, month, year int) ([]models.Transaction, error) {
	if month < int(time.January) || month > int(time.December) {
		return nil, invalidInput("月份必须在 1-12 之间")
	}
	if year < 1 {
		return nil, invalidInput("年份错误")
	}
	return s.store.ListTransactions(ctx, userID, month, year)
}
