package service

import (
	"regexp"
	"strings"

	"budget/models"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParseAmount 解析金额字符串，最多两位小数且不能为负，结果保留两位小数
func ParseAmount(s string) (models.Money, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return models.Money{}, invalidInput("金额格式错误: %q", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return models.Money{}, invalidInput("金额格式错误: %q", s)
	}
	return models.NewMoney(d), nil
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}
