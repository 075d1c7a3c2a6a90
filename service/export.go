package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"budget/models"

	"github.com/xuri/excelize/v2"
)

const (
	sheetBills   = "账单"
	sheetIncomes = "收入"
	sheetSummary = "汇总"
)

var (
	billHeaders   = []string{"ID", "名称", "类别", "金额", "到期日", "状态", "付款日期", "付款方式", "付款来源"}
	incomeHeaders = []string{"ID", "来源", "描述", "金额", "类型", "到账日", "日期"}
)

var statusLabels = map[BillStatus]string{
	BillStatusPaid:      "已付",
	BillStatusOverdue:   "逾期",
	BillStatusDueToday:  "今天到期",
	BillStatusDueSoon:   "即将到期",
	BillStatusScheduled: "待付",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// BuildWorkbook 生成包含账单、收入、汇总三个工作表的 Excel，调用方负责 Close
func BuildWorkbook(d *Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetBills); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{sheetIncomes, sheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	names := categoryNames(d.Categories)
	rows := make([][]interface{}, 0, len(d.Bills))
	for _, b := range d.Bills {
		rows = append(rows, []interface{}{
			b.ID, b.Name, categoryLabel(names, b.CategoryID), b.Amount.InexactFloat64(), b.DueDay,
			statusLabels[b.Status], formatDate(b.PaymentDate), deref(b.PaymentMethod), deref(b.PaymentSource),
		})
	}
	if err := writeSheet(f, sheetBills, billHeaders, rows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, inc := range d.Incomes {
		receiptDay := ""
		if inc.ReceiptDay != nil {
			receiptDay = strconv.Itoa(*inc.ReceiptDay)
		}
		kind := "固定"
		if !inc.IsRecurring {
			kind = "一次性"
		}
		rows = append(rows, []interface{}{
			inc.ID, inc.Source, inc.Description, inc.Amount.InexactFloat64(), kind, receiptDay, formatDate(inc.Date),
		})
	}
	if err := writeSheet(f, sheetIncomes, incomeHeaders, rows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	summary := [][]interface{}{
		{"月固定收入", d.MonthlyIncome.InexactFloat64()},
		{"月账单支出", d.MonthlyExpenses.InexactFloat64()},
		{"月结余", d.MonthlyBalance.InexactFloat64()},
		{"7 天内到期", d.UpcomingBills},
	}
	for _, c := range d.CategoryBreakdown {
		summary = append(summary, []interface{}{c.Name, c.Total.InexactFloat64(), fmt.Sprintf("%.1f%%", c.Percentage)})
	}
	if err := writeSheet(f, sheetSummary, []string{"项目", "金额", "占比"}, summary, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

// WriteBillsCSV 导出账单 CSV，带 BOM 以便 Excel 正确显示中文
func WriteBillsCSV(w io.Writer, bills []BillView, categories []models.Category) error {
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return err
	}
	names := categoryNames(categories)
	writer := csv.NewWriter(w)
	if err := writer.Write(billHeaders); err != nil {
		return err
	}
	for _, b := range bills {
		row := []string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.Name,
			categoryLabel(names, b.CategoryID),
			b.Amount.StringFixed(2),
			strconv.Itoa(b.DueDay),
			statusLabels[b.Status],
			formatDate(b.PaymentDate),
			deref(b.PaymentMethod),
			deref(b.PaymentSource),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func categoryNames(categories []models.Category) map[uint]string {
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func categoryLabel(names map[uint]string, id *uint) string {
	if id == nil {
		return "未分类"
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return "未分类"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
