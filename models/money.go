package models

import "github.com/shopspring/decimal"

// Money 金额，库中为 decimal(10,2)，JSON 输出固定两位小数的字符串
type Money struct {
	decimal.Decimal
}

// NewMoney 按两位小数取整
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}
