package api

import (
	"strconv"
	"time"

	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 汇总、日历、流水与建议
type DashboardHandler struct {
	svc *service.Services
	now func() time.Time
}

func NewDashboardHandler(svc *service.Services, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{svc: svc, now: now}
}

// Dashboard 首页汇总
// @Summary 获取首页汇总
// @Description 月收入、月支出、结余、7 天内到期账单数和类别占比，附带账单、收入和类别列表
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.Dashboard} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard.GetDashboard(c.Request.Context(), middleware.GetCurrentUserID(c), h.now())
	if err != nil {
		handleError(c, err, "查询汇总失败")
		return
	}
	Success(c, d)
}

// Calendar 日历事件
// @Summary 获取日历事件
// @Description 返回 [start, end] 内账单和收入的每次发生，按日期排序
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start query string true "开始日期 (2024-03-01)"
// @Param end query string true "结束日期 (2024-03-31)"
// @Success 200 {object} Response{data=[]service.Occurrence} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/calendar [get]
func (h *DashboardHandler) Calendar(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return
	}
	start, err := parseDate(startStr)
	if err != nil {
		BadRequest(c, "开始"+err.Error())
		return
	}
	end, err := parseDate(endStr)
	if err != nil {
		BadRequest(c, "结束"+err.Error())
		return
	}

	events, err := h.svc.Dashboard.CalendarEvents(c.Request.Context(), middleware.GetCurrentUserID(c), start, end)
	if err != nil {
		handleError(c, err, "查询日历失败")
		return
	}
	Success(c, events)
}

// Transactions 月度流水
// @Summary 获取月度流水
// @Description 不传 month/year 时取当前月份
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=[]models.Transaction} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [get]
func (h *DashboardHandler) Transactions(c *gin.Context) {
	now := h.now()
	month, year := int(now.Month()), now.Year()
	var err error
	if s := c.Query("month"); s != "" {
		if month, err = strconv.Atoi(s); err != nil {
			BadRequest(c, "month 必须为整数")
			return
		}
	}
	if s := c.Query("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			BadRequest(c, "year 必须为整数")
			return
		}
	}

	list, err := h.svc.Transactions.List(c.Request.Context(), middleware.GetCurrentUserID(c), month, year)
	if err != nil {
		handleError(c, err, "查询流水失败")
		return
	}
	Success(c, list)
}

// Advice 理财建议
// @Summary 获取理财建议
// @Description AI 服务未启用或调用失败时返回基于规则的建议，source 字段标明来源
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.Advice} "获取成功"
// @Router /api/v1/advice [get]
func (h *DashboardHandler) Advice(c *gin.Context) {
	advice, err := h.svc.Advice.GetAdvice(c.Request.Context(), middleware.GetCurrentUserID(c), h.now())
	if err != nil {
		handleError(c, err, "生成建议失败")
		return
	}
	Success(c, advice)
}

// Reminders 发送账单提醒
// @Summary 发送到期账单提醒
// @Description 为即将到期的未付账单创建提醒通知，邮件已配置时同时发送邮件
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ReminderResult} "发送完成"
// @Router /api/v1/reminders [post]
func (h *DashboardHandler) Reminders(c *gin.Context) {
	result, err := h.svc.Reminders.SendDueReminders(c.Request.Context(), middleware.GetCurrentUserID(c), h.now())
	if err != nil {
		handleError(c, err, "发送提醒失败")
		return
	}
	Success(c, result)
}
