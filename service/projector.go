package service

import (
	"sort"
	"time"

	"budget/models"
)

const (
	OccurrenceBill   = "bill"
	OccurrenceIncome = "income"
)

// Occurrence 账单或收入在日历上的一次具体发生
type Occurrence struct {
	Kind     string       `json:"kind"`
	EntityID uint         `json:"entity_id"`
	Name     string       `json:"name"`
	Date     time.Time    `json:"date"`
	Amount   models.Money `json:"amount"`
	IsPaid   bool         `json:"is_paid"`
}

// dayEntity 带“每月第几天”字段的实体，seq 为其在输入中的位置
type dayEntity struct {
	seq    int
	kind   string
	id     uint
	name   string
	day    int
	amount models.Money
	isPaid bool
}

// ProjectOccurrences 把账单的 DueDay、固定收入的 ReceiptDay 和一次性收入的 Date
// 展开为 [start, end] 内的具体日期（按天比较，含两端）。
//
// 区间跨越的每个自然月都会被枚举；某月天数不足时该月直接跳过，不顺延也不取月末。
// 结果按日期升序，同一天内保持传入顺序（先账单后收入）。
func ProjectOccurrences(bills []models.Bill, incomes []models.Income, start, end time.Time) []Occurrence {
	loc := start.Location()
	from := dateOnly(start, loc)
	to := dateOnly(end, loc)
	if to.Before(from) {
		return []Occurrence{}
	}

	entities := make([]dayEntity, 0, len(bills)+len(incomes))
	for i, b := range bills {
		entities = append(entities, dayEntity{
			seq: i, kind: OccurrenceBill, id: b.ID, name: b.Name, day: b.DueDay, amount: b.Amount, isPaid: b.IsPaid,
		})
	}
	type oneOffIncome struct {
		seq    int
		income models.Income
	}
	var oneOff []oneOffIncome
	for i, inc := range incomes {
		seq := len(bills) + i
		if inc.IsRecurring {
			if inc.ReceiptDay == nil {
				continue
			}
			entities = append(entities, dayEntity{
				seq: seq, kind: OccurrenceIncome, id: inc.ID, name: inc.Source, day: *inc.ReceiptDay, amount: inc.Amount,
			})
			continue
		}
		oneOff = append(oneOff, oneOffIncome{seq: seq, income: inc})
	}

	type ranked struct {
		seq int
		occ Occurrence
	}
	var found []ranked
	for _, ym := range monthsBetween(from, to) {
		last := daysInMonth(ym.year, ym.month)
		for _, e := range entities {
			if e.day < 1 || e.day > last {
				continue
			}
			candidate := time.Date(ym.year, ym.month, e.day, 0, 0, 0, 0, loc)
			if candidate.Before(from) || candidate.After(to) {
				continue
			}
			found = append(found, ranked{seq: e.seq, occ: Occurrence{
				Kind: e.kind, EntityID: e.id, Name: e.name, Date: candidate, Amount: e.amount, IsPaid: e.isPaid,
			}})
		}
	}

	for _, o := range oneOff {
		if o.income.Date == nil {
			continue
		}
		d := dateOnly(*o.income.Date, loc)
		if d.Before(from) || d.After(to) {
			continue
		}
		found = append(found, ranked{seq: o.seq, occ: Occurrence{
			Kind: OccurrenceIncome, EntityID: o.income.ID, Name: o.income.Source, Date: d, Amount: o.income.Amount, IsPaid: true,
		}})
	}

	// 同一天按实体在输入中的顺序
	sort.SliceStable(found, func(i, j int) bool {
		if !found[i].occ.Date.Equal(found[j].occ.Date) {
			return found[i].occ.Date.Before(found[j].occ.Date)
		}
		return found[i].seq < found[j].seq
	})
	out := make([]Occurrence, 0, len(found))
	for _, r := range found {
		out = append(out, r.occ)
	}
	return out
}

type yearMonth struct {
	year  int
	month time.Month
}

// monthsBetween 返回 [from, to] 涉及的所有 (年, 月)
func monthsBetween(from, to time.Time) []yearMonth {
	var months []yearMonth
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	stop := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(stop) {
		months = append(months, yearMonth{year: cur.Year(), month: cur.Month()})
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// daysInMonth 当月天数，已考虑闰年
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
