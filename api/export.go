package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出处理器
type ExportHandler struct {
	dashboard *service.DashboardService
	now       func() time.Time
}

// NewExportHandler 创建导出处理器
func NewExportHandler(dashboard *service.DashboardService, now func() time.Time) *ExportHandler {
	if now == nil {
		now = time.Now
	}
	return &ExportHandler{dashboard: dashboard, now: now}
}

// ExportCSV 导出账单为 CSV
// @Summary 导出账单
// @Description 导出当前用户全部账单为 CSV 文件（UTF-8 BOM，可直接用 Excel 打开）
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	now := h.now()
	d, err := h.dashboard.GetDashboard(c.Request.Context(), middleware.GetCurrentUserID(c), now)
	if err != nil {
		handleError(c, err, "查询数据失败")
		return
	}

	buf := new(bytes.Buffer)
	if err := service.WriteBillsCSV(buf, d.Bills, d.Categories); err != nil {
		log.Printf("生成 CSV 失败: %v", err)
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("bills_%s.csv", now.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出 Excel 报表
// @Summary 导出 Excel 报表
// @Description 包含账单、收入和月度汇总三个工作表
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	now := h.now()
	d, err := h.dashboard.GetDashboard(c.Request.Context(), middleware.GetCurrentUserID(c), now)
	if err != nil {
		handleError(c, err, "查询数据失败")
		return
	}

	f, err := service.BuildWorkbook(d)
	if err != nil {
		log.Printf("生成 Excel 失败: %v", err)
		InternalError(c, "生成 Excel 失败")
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("写出 Excel 失败: %v", err)
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("budget_%s.xlsx", now.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
